package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionCounters tracks the per-session signals the escalation engine
// consumes on every message: running message count and wall-clock session
// start. Entries expire so abandoned sessions do not accumulate.
type SessionCounters struct {
	mu    sync.Mutex
	cache *cache.Cache
}

type counterEntry struct {
	MessageCount  int
	FallbackCount int
	StartedAt     time.Time
}

func NewSessionCounters() *SessionCounters {
	// Create a cache with a default expiration time of 24 hours, and which
	// purges expired items every hour
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionCounters{cache: c}
}

// Touch increments the session's message count and returns the updated
// count, fallback count and elapsed duration in seconds.
func (s *SessionCounters) Touch(sessionID string) (count int, fallbacks int, durationSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.get(sessionID)
	entry.MessageCount++
	s.cache.Set(sessionID, entry, cache.DefaultExpiration)
	return entry.MessageCount, entry.FallbackCount, int(time.Since(entry.StartedAt).Seconds())
}

// RecordFallback bumps the session's consecutive fallback counter.
func (s *SessionCounters) RecordFallback(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.get(sessionID)
	entry.FallbackCount++
	s.cache.Set(sessionID, entry, cache.DefaultExpiration)
	return entry.FallbackCount
}

// ResetFallbacks clears the consecutive fallback counter after a
// successful answer.
func (s *SessionCounters) ResetFallbacks(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.get(sessionID)
	if entry.FallbackCount == 0 {
		return
	}
	entry.FallbackCount = 0
	s.cache.Set(sessionID, entry, cache.DefaultExpiration)
}

// Forget drops the session's counters, typically on session close.
func (s *SessionCounters) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionID)
}

func (s *SessionCounters) get(sessionID string) counterEntry {
	if x, found := s.cache.Get(sessionID); found {
		return x.(counterEntry)
	}
	return counterEntry{StartedAt: time.Now()}
}

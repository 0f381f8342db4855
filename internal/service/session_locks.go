package service

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks serializes mutating operations per session id. Reads and
// rule evaluation run outside these locks. Entries live for the process
// lifetime: deleting one while a goroutine is still blocked on it would
// let a later caller allocate a fresh mutex and run concurrently.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the session's mutex and returns its unlock function.
func (l *sessionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

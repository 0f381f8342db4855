// Package memory provides an in-memory implementation of the repository
// layer. It backs the service when no database connection string is
// configured and is the fixture for service-level tests.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"telecom-support-be/internal/entity"
)

type Store struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]entity.Session
	escalations map[uuid.UUID]entity.Escalation
	agents      map[string]entity.Agent
}

func NewStore() *Store {
	return &Store{
		sessions:    make(map[uuid.UUID]entity.Session),
		escalations: make(map[uuid.UUID]entity.Escalation),
		agents:      make(map[string]entity.Agent),
	}
}

type snapshot struct {
	sessions    map[uuid.UUID]entity.Session
	escalations map[uuid.UUID]entity.Escalation
	agents      map[string]entity.Agent
}

// take copies the current state so Rollback can restore it. Records are
// stored by value, so copying the maps is a full deep copy.
func (s *Store) take() *snapshot {
	snap := &snapshot{
		sessions:    make(map[uuid.UUID]entity.Session, len(s.sessions)),
		escalations: make(map[uuid.UUID]entity.Escalation, len(s.escalations)),
		agents:      make(map[string]entity.Agent, len(s.agents)),
	}
	for k, v := range s.sessions {
		snap.sessions[k] = v
	}
	for k, v := range s.escalations {
		snap.escalations[k] = v
	}
	for k, v := range s.agents {
		snap.agents[k] = v
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.sessions = snap.sessions
	s.escalations = snap.escalations
	s.agents = snap.agents
}

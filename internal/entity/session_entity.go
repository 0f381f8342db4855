package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusEscalated SessionStatus = "escalated"
	SessionStatusClosed    SessionStatus = "closed"
)

// Session is one continuous support conversation between a user and the
// system. Mutated only through the escalation service transitions.
type Session struct {
	Id        uuid.UUID
	RoomId    string
	UserId    string
	UserName  string
	AgentId   *string
	Status    SessionStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}

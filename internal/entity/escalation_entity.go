package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"telecom-support-be/pkg/escalation"
)

type EscalationStatus string

const (
	EscalationStatusPending  EscalationStatus = "pending"
	EscalationStatusHandled  EscalationStatus = "handled"
	EscalationStatusResolved EscalationStatus = "resolved"
)

// Escalation records a decision to hand a conversation to a human agent.
// AnalysisData is the category snapshot from the rule engine; the state
// store persists it without interpreting it.
type Escalation struct {
	Id              uuid.UUID
	SessionId       uuid.UUID
	Reason          string
	Priority        escalation.Priority
	AnalysisData    json.RawMessage
	AssignedAgentId *string
	Status          EscalationStatus
	TriggeredAt     time.Time
	HandledAt       *time.Time
}

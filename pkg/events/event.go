package events

import "time"

// Event types carried on the internal bus and the NATS stream.
const (
	TypeEscalationTriggered = "ESCALATION_TRIGGERED"
	TypeEscalationAssigned  = "ESCALATION_ASSIGNED"
	TypeSessionClosed       = "SESSION_CLOSED"
	TypeMessageReceived     = "MESSAGE_RECEIVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_CLOSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the canonical Event implementation; constructors below
// build it with well-formed payloads.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewEscalationTriggered(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeEscalationTriggered, Data: data, OccurredAt: time.Now()}
}

func NewEscalationAssigned(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeEscalationAssigned, Data: data, OccurredAt: time.Now()}
}

func NewSessionClosed(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeSessionClosed, Data: data, OccurredAt: time.Now()}
}

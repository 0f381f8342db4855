package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Wire payloads for websocket fan-out. Field names are part of the
// dashboard contract; do not rename them.

// EscalationTriggeredPayload goes to the session room.
type EscalationTriggeredPayload struct {
	SessionId string   `json:"session_id"`
	Reasons   []string `json:"reasons"`
	Priority  string   `json:"priority"`
	RoomId    string   `json:"room_id"`
}

// EscalationPendingPayload goes to the agents room. UniqueKey
// deduplicates dashboard cards across replays and live delivery.
type EscalationPendingPayload struct {
	RoomId       string `json:"roomId"`
	SessionId    string `json:"sessionId"`
	UserName     string `json:"userName"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	Reason       string `json:"reason"`
	CreatedAt    string `json:"createdAt"`
	EscalationId string `json:"escalationId"`
	UniqueKey    string `json:"uniqueKey"`
}

// AgentJoinedPayload goes to the session room when a human takes over.
type AgentJoinedPayload struct {
	RoomId    string `json:"roomId"`
	AgentId   string `json:"agentId"`
	Timestamp string `json:"timestamp"`
}

// SessionClosedPayload goes to both the session room and the agents room.
type SessionClosedPayload struct {
	RoomId    string `json:"room_id"`
	AgentId   string `json:"agent_id"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

// NewMessagePayload carries chat traffic into the session room.
type NewMessagePayload struct {
	RoomId    string `json:"room_id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// AiTypingPayload toggles the typing indicator in the session room.
type AiTypingPayload struct {
	RoomId string `json:"room_id"`
	Typing bool   `json:"typing"`
}

// SupportEventMessage is the envelope for the in-process bus. All
// lifecycle events for one session funnel through the same topic from
// inside that session's critical section, so listeners observe them in
// commit order.
type SupportEventMessage struct {
	Kind          string                     `json:"kind"`
	Escalation    *EscalationRecordedMessage `json:"escalation,omitempty"`
	AgentJoined   *AgentJoinedPayload        `json:"agent_joined,omitempty"`
	SessionClosed *SessionClosedPayload      `json:"session_closed,omitempty"`
}

const (
	SupportEventEscalationRecorded = "escalation_recorded"
	SupportEventAgentJoined        = "agent_joined"
	SupportEventSessionClosed      = "session_closed"
)

// EscalationRecordedMessage rides the in-process bus from the state store
// commit to the fan-out consumer.
type EscalationRecordedMessage struct {
	EscalationId uuid.UUID       `json:"escalation_id"`
	SessionId    uuid.UUID       `json:"session_id"`
	RoomId       string          `json:"room_id"`
	UserName     string          `json:"user_name"`
	Reasons      []string        `json:"reasons"`
	Reason       string          `json:"reason"`
	Priority     string          `json:"priority"`
	AnalysisData json.RawMessage `json:"analysis_data,omitempty"`
	TriggeredAt  string          `json:"triggered_at"`
}

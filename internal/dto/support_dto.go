package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	RoomId   string `json:"room_id" validate:"required"`
	UserId   string `json:"user_id" validate:"required"`
	UserName string `json:"user_name"`
}

type CreateSessionResponse struct {
	Id     uuid.UUID `json:"id"`
	RoomId string    `json:"room_id"`
	Status string    `json:"status"`
}

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	RoomId    string     `json:"room_id"`
	UserId    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	AgentId   *string    `json:"agent_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type EscalationResponse struct {
	Id              uuid.UUID       `json:"id"`
	SessionId       uuid.UUID       `json:"session_id"`
	Reason          string          `json:"reason"`
	Priority        string          `json:"priority"`
	AnalysisData    json.RawMessage `json:"analysis_data,omitempty"`
	AssignedAgentId *string         `json:"assigned_agent_id"`
	Status          string          `json:"status"`
	TriggeredAt     time.Time       `json:"triggered_at"`
	HandledAt       *time.Time      `json:"handled_at"`
}

// EscalationSummaryResponse joins a session with its escalation history
// for the agent detail view.
type EscalationSummaryResponse struct {
	Session     SessionResponse      `json:"session"`
	Escalations []EscalationResponse `json:"escalations"`
	Priority    string               `json:"priority"`
}

type AssignAgentRequest struct {
	EscalationId uuid.UUID
	AgentId      string `json:"agent_id" validate:"required"`
}

type CloseSessionRequest struct {
	SessionId uuid.UUID
	AgentId   string `json:"agent_id" validate:"required"`
	Reason    string `json:"reason"`
}

type AgentResponse struct {
	AgentId     string `json:"agent_id"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
}

type UserMessageRequest struct {
	RoomId  string `json:"room_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

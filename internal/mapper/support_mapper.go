package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/model"
	"telecom-support-be/pkg/escalation"
)

type SupportMapper struct{}

func NewSupportMapper() *SupportMapper {
	return &SupportMapper{}
}

// Session mappers

func (m *SupportMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		Id:        s.Id,
		RoomId:    s.RoomId,
		UserId:    s.UserId,
		UserName:  s.UserName,
		AgentId:   s.AgentId,
		Status:    entity.SessionStatus(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SupportMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		Id:        s.Id,
		RoomId:    s.RoomId,
		UserId:    s.UserId,
		UserName:  s.UserName,
		AgentId:   s.AgentId,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// Escalation mappers

func (m *SupportMapper) EscalationToEntity(e *model.Escalation) *entity.Escalation {
	if e == nil {
		return nil
	}

	return &entity.Escalation{
		Id:              e.Id,
		SessionId:       e.SessionId,
		Reason:          e.Reason,
		Priority:        escalation.Priority(e.Priority),
		AnalysisData:    json.RawMessage(e.AnalysisData),
		AssignedAgentId: e.AssignedAgentId,
		Status:          entity.EscalationStatus(e.Status),
		TriggeredAt:     e.TriggeredAt,
		HandledAt:       e.HandledAt,
	}
}

func (m *SupportMapper) EscalationToModel(e *entity.Escalation) *model.Escalation {
	if e == nil {
		return nil
	}

	return &model.Escalation{
		Id:              e.Id,
		SessionId:       e.SessionId,
		Reason:          e.Reason,
		Priority:        string(e.Priority),
		AnalysisData:    datatypes.JSON(e.AnalysisData),
		AssignedAgentId: e.AssignedAgentId,
		Status:          string(e.Status),
		TriggeredAt:     e.TriggeredAt,
		HandledAt:       e.HandledAt,
	}
}

// Agent mappers

func (m *SupportMapper) AgentToEntity(a *model.Agent) *entity.Agent {
	if a == nil {
		return nil
	}
	return &entity.Agent{
		AgentId:     a.AgentId,
		Name:        a.Name,
		IsAvailable: a.IsAvailable,
	}
}

func (m *SupportMapper) AgentToModel(a *entity.Agent) *model.Agent {
	if a == nil {
		return nil
	}
	return &model.Agent{
		AgentId:     a.AgentId,
		Name:        a.Name,
		IsAvailable: a.IsAvailable,
	}
}

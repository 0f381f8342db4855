package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"telecom-support-be/internal/apperrors"
	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/repository/specification"
	"telecom-support-be/internal/repository/unitofwork"
	"telecom-support-be/pkg/escalation"
)

// pendingBacklogLimit bounds the replay sent to a freshly connected
// agent dashboard.
const pendingBacklogLimit = 50

// IEscalationService owns every Session and Escalation mutation. All
// writes for one session are serialized through a per-session lock, and
// lifecycle events are published to the in-process bus inside that
// critical section so listeners observe them in commit order.
type IEscalationService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetOrCreateSession(ctx context.Context, roomId, userId, userName string) (*entity.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	GetSessionByRoom(ctx context.Context, roomId string) (*entity.Session, error)

	RecordEscalation(ctx context.Context, sessionId uuid.UUID, decision escalation.Decision) (*entity.Escalation, error)
	AssignAgent(ctx context.Context, sessionId uuid.UUID, agentId string) (bool, error)
	CloseSession(ctx context.Context, sessionId uuid.UUID, agentId, reason string) error

	PendingEscalations(ctx context.Context, limit int) ([]*dto.EscalationPendingPayload, error)
	SessionEscalations(ctx context.Context, sessionId uuid.UUID) ([]*dto.EscalationResponse, error)
	EscalationSummary(ctx context.Context, sessionId uuid.UUID) (*dto.EscalationSummaryResponse, error)
	AvailableAgents(ctx context.Context) ([]*dto.AgentResponse, error)
}

type escalationService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	locks            *sessionLocks
	logger           logger.ILogger
}

func NewEscalationService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IEscalationService {
	return &escalationService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		locks:            newSessionLocks(),
		logger:           log,
	}
}

func (s *escalationService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.SessionRepository().FindOne(ctx,
		specification.ByRoomID{RoomID: req.RoomId},
		specification.StatusIn{Statuses: []string{string(entity.SessionStatusActive), string(entity.SessionStatusEscalated)}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to check room occupancy: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateRoom
	}

	session := entity.Session{
		Id:        uuid.New(),
		RoomId:    req.RoomId,
		UserId:    req.UserId,
		UserName:  req.UserName,
		Status:    entity.SessionStatusActive,
		CreatedAt: time.Now(),
	}
	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Escalation", "Session created", map[string]interface{}{
		"session_id": session.Id,
		"room_id":    session.RoomId,
	})

	return &dto.CreateSessionResponse{
		Id:     session.Id,
		RoomId: session.RoomId,
		Status: string(session.Status),
	}, nil
}

// GetOrCreateSession backs the room-join path: the first participant in
// a room creates the session, later joins reuse it.
func (s *escalationService) GetOrCreateSession(ctx context.Context, roomId, userId, userName string) (*entity.Session, error) {
	session, err := s.GetSessionByRoom(ctx, roomId)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	res, err := s.CreateSession(ctx, &dto.CreateSessionRequest{RoomId: roomId, UserId: userId, UserName: userName})
	if err != nil {
		// Lost the creation race; the session now exists.
		if errors.Is(err, apperrors.ErrDuplicateRoom) {
			return s.GetSessionByRoom(ctx, roomId)
		}
		return nil, err
	}

	return s.GetSessionByRoom(ctx, res.RoomId)
}

func (s *escalationService) GetSession(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	return sessionToResponse(session), nil
}

func (s *escalationService) GetSessionByRoom(ctx context.Context, roomId string) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().FindOne(ctx,
		specification.ByRoomID{RoomID: roomId},
		specification.StatusIn{Statuses: []string{string(entity.SessionStatusActive), string(entity.SessionStatusEscalated)}},
	)
}

func (s *escalationService) RecordEscalation(ctx context.Context, sessionId uuid.UUID, decision escalation.Decision) (*entity.Escalation, error) {
	unlock := s.locks.lock(sessionId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	if session.Status == entity.SessionStatusClosed {
		return nil, apperrors.ErrStaleSession
	}

	analysisData, err := json.Marshal(decision.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis snapshot: %w", err)
	}

	now := time.Now()
	esc := entity.Escalation{
		Id:           uuid.New(),
		SessionId:    sessionId,
		Reason:       decision.Reason(),
		Priority:     decision.Priority,
		AnalysisData: analysisData,
		Status:       entity.EscalationStatusPending,
		TriggeredAt:  now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Resolve before insert: the storage layer enforces at most one
	// pending escalation per session with a partial unique index, and
	// Postgres checks it per statement.
	superseded, err := uow.EscalationRepository().ResolvePendingBySession(ctx, sessionId, esc.Id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to supersede pending escalations: %w", err)
	}

	if err := uow.EscalationRepository().Create(ctx, &esc); err != nil {
		return nil, fmt.Errorf("failed to create escalation: %w", err)
	}

	session.Status = entity.SessionStatusEscalated
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to transition session: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit escalation: %w", err)
	}

	s.logger.Info("Escalation", "Escalation recorded", map[string]interface{}{
		"escalation_id": esc.Id,
		"session_id":    sessionId,
		"priority":      string(esc.Priority),
		"superseded":    superseded,
	})

	s.publishEvent(ctx, dto.SupportEventMessage{
		Kind: dto.SupportEventEscalationRecorded,
		Escalation: &dto.EscalationRecordedMessage{
			EscalationId: esc.Id,
			SessionId:    sessionId,
			RoomId:       session.RoomId,
			UserName:     session.UserName,
			Reasons:      decision.Reasons,
			Reason:       esc.Reason,
			Priority:     string(esc.Priority),
			AnalysisData: analysisData,
			TriggeredAt:  esc.TriggeredAt.Format(time.RFC3339),
		},
	})

	return &esc, nil
}

func (s *escalationService) AssignAgent(ctx context.Context, sessionId uuid.UUID, agentId string) (bool, error) {
	unlock := s.locks.lock(sessionId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return false, nil
	}
	// Closed is terminal; an assignment arriving after close must not
	// flip the session back to escalated.
	if session.Status == entity.SessionStatusClosed {
		return false, apperrors.ErrStaleSession
	}

	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := time.Now()
	session.AgentId = &agentId
	session.Status = entity.SessionStatusEscalated
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return false, fmt.Errorf("failed to assign agent on session: %w", err)
	}

	// Agents may join proactively, so a missing pending escalation is fine.
	pending, err := uow.EscalationRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByStatus{Status: string(entity.EscalationStatusPending)},
	)
	if err != nil {
		return false, fmt.Errorf("failed to load pending escalation: %w", err)
	}
	if pending != nil {
		pending.Status = entity.EscalationStatusHandled
		pending.AssignedAgentId = &agentId
		pending.HandledAt = &now
		if err := uow.EscalationRepository().Update(ctx, pending); err != nil {
			return false, fmt.Errorf("failed to mark escalation handled: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit agent assignment: %w", err)
	}

	s.logger.Info("Escalation", "Agent assigned", map[string]interface{}{
		"session_id": sessionId,
		"agent_id":   agentId,
		"handled":    pending != nil,
	})

	s.publishEvent(ctx, dto.SupportEventMessage{
		Kind: dto.SupportEventAgentJoined,
		AgentJoined: &dto.AgentJoinedPayload{
			RoomId:    session.RoomId,
			AgentId:   agentId,
			Timestamp: now.Format(time.RFC3339),
		},
	})

	return true, nil
}

func (s *escalationService) CloseSession(ctx context.Context, sessionId uuid.UUID, agentId, reason string) error {
	unlock := s.locks.lock(sessionId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return apperrors.ErrSessionNotFound
	}
	if session.Status == entity.SessionStatusClosed {
		return nil
	}

	session.Status = entity.SessionStatusClosed
	if agentId != "" {
		session.AgentId = &agentId
	}
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	s.logger.Info("Escalation", "Session closed", map[string]interface{}{
		"session_id": sessionId,
		"agent_id":   agentId,
		"reason":     reason,
	})

	s.publishEvent(ctx, dto.SupportEventMessage{
		Kind: dto.SupportEventSessionClosed,
		SessionClosed: &dto.SessionClosedPayload{
			RoomId:    session.RoomId,
			AgentId:   agentId,
			Reason:    reason,
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})

	return nil
}

func (s *escalationService) PendingEscalations(ctx context.Context, limit int) ([]*dto.EscalationPendingPayload, error) {
	if limit <= 0 || limit > pendingBacklogLimit {
		limit = pendingBacklogLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pending, err := uow.EscalationRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.EscalationStatusPending)},
		specification.OrderBy{Field: "triggered_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending escalations: %w", err)
	}

	out := make([]*dto.EscalationPendingPayload, 0, len(pending))
	for _, esc := range pending {
		session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: esc.SessionId})
		if err != nil {
			return nil, fmt.Errorf("failed to load session %s: %w", esc.SessionId, err)
		}
		if session == nil {
			s.logger.Warn("Escalation", "Pending escalation references missing session", map[string]interface{}{
				"escalation_id": esc.Id,
				"session_id":    esc.SessionId,
			})
			continue
		}
		out = append(out, &dto.EscalationPendingPayload{
			RoomId:       session.RoomId,
			SessionId:    esc.SessionId.String(),
			UserName:     session.UserName,
			Status:       string(esc.Status),
			Priority:     string(esc.Priority),
			Reason:       esc.Reason,
			CreatedAt:    esc.TriggeredAt.Format(time.RFC3339),
			EscalationId: esc.Id.String(),
			UniqueKey:    fmt.Sprintf("escalation_%s", esc.Id),
		})
	}
	return out, nil
}

func (s *escalationService) SessionEscalations(ctx context.Context, sessionId uuid.UUID) ([]*dto.EscalationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	escalations, err := uow.EscalationRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "triggered_at", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list session escalations: %w", err)
	}

	out := make([]*dto.EscalationResponse, 0, len(escalations))
	for _, esc := range escalations {
		out = append(out, escalationToResponse(esc))
	}
	return out, nil
}

func (s *escalationService) EscalationSummary(ctx context.Context, sessionId uuid.UUID) (*dto.EscalationSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	escalations, err := s.SessionEscalations(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	// Summary priority is the highest across the session's history.
	priority := escalation.PriorityLow
	for _, esc := range escalations {
		priority = priority.Max(escalation.Priority(esc.Priority))
	}

	escalationValues := make([]dto.EscalationResponse, 0, len(escalations))
	for _, esc := range escalations {
		escalationValues = append(escalationValues, *esc)
	}

	resp := &dto.EscalationSummaryResponse{
		Session:     *sessionToResponse(session),
		Escalations: escalationValues,
		Priority:    string(priority),
	}
	return resp, nil
}

func (s *escalationService) AvailableAgents(ctx context.Context) ([]*dto.AgentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	agents, err := uow.AgentRepository().FindAll(ctx, specification.ByAvailability{Available: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list available agents: %w", err)
	}

	out := make([]*dto.AgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, &dto.AgentResponse{
			AgentId:     a.AgentId,
			Name:        a.Name,
			IsAvailable: a.IsAvailable,
		})
	}
	return out, nil
}

// publishEvent pushes a lifecycle event onto the in-process bus. Fan-out
// is auxiliary: a publish failure is logged, never surfaced.
func (s *escalationService) publishEvent(ctx context.Context, event dto.SupportEventMessage) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Escalation", "Failed to marshal bus event", map[string]interface{}{"kind": event.Kind, "error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("Escalation", "Failed to publish bus event", map[string]interface{}{"kind": event.Kind, "error": err.Error()})
	}
}

func sessionToResponse(session *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        session.Id,
		RoomId:    session.RoomId,
		UserId:    session.UserId,
		UserName:  session.UserName,
		AgentId:   session.AgentId,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func escalationToResponse(esc *entity.Escalation) *dto.EscalationResponse {
	return &dto.EscalationResponse{
		Id:              esc.Id,
		SessionId:       esc.SessionId,
		Reason:          esc.Reason,
		Priority:        string(esc.Priority),
		AnalysisData:    esc.AnalysisData,
		AssignedAgentId: esc.AssignedAgentId,
		Status:          string(esc.Status),
		TriggeredAt:     esc.TriggeredAt,
		HandledAt:       esc.HandledAt,
	}
}

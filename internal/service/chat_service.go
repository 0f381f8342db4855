package service

import (
	"context"
	"errors"
	"fmt"

	"telecom-support-be/internal/apperrors"
	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/repository/memory"
	"telecom-support-be/pkg/escalation"
	"telecom-support-be/pkg/llm"
)

// fallbackApology is sent when decisioning or generation fails; the user
// must never be left without a response.
const fallbackApology = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// IChatService wires an inbound user message through scoring, the rule
// engine and the state store, then hands the result to fan-out or the
// response generator.
type IChatService interface {
	HandleUserMessage(ctx context.Context, roomId, userId, userName, message string) error
}

type chatService struct {
	escalationService   IEscalationService
	notificationService INotificationService
	engine              *escalation.Engine
	scorer              llm.ConfidenceScorer
	provider            llm.LLMProvider
	counters            *memory.SessionCounters
	defaultConfidence   float64
	logger              logger.ILogger
}

func NewChatService(
	escalationService IEscalationService,
	notificationService INotificationService,
	engine *escalation.Engine,
	scorer llm.ConfidenceScorer,
	provider llm.LLMProvider,
	counters *memory.SessionCounters,
	defaultConfidence float64,
	log logger.ILogger,
) IChatService {
	return &chatService{
		escalationService:   escalationService,
		notificationService: notificationService,
		engine:              engine,
		scorer:              scorer,
		provider:            provider,
		counters:            counters,
		defaultConfidence:   defaultConfidence,
		logger:              log,
	}
}

func (c *chatService) HandleUserMessage(ctx context.Context, roomId, userId, userName, message string) error {
	session, err := c.escalationService.GetOrCreateSession(ctx, roomId, userId, userName)
	if err != nil {
		return fmt.Errorf("failed to resolve session for room %s: %w", roomId, err)
	}

	c.notificationService.BroadcastMessage(roomId, "user", message)

	// Once a human is drawn in the automated responder stays out of the
	// conversation until the session is closed.
	if session.Status == entity.SessionStatusEscalated {
		return nil
	}

	count, fallbacks, durationSeconds := c.counters.Touch(session.Id.String())

	// Scoring happens before any session lock is taken; the collaborator
	// may block on network.
	confidence := c.defaultConfidence
	if score, err := c.scorer.Score(ctx, message); err != nil {
		c.logger.Warn("Chat", "Confidence scoring failed, using default", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	} else {
		confidence = score.Confidence
	}

	decision := c.engine.Evaluate(escalation.Input{
		Message:                message,
		Confidence:             confidence,
		MessageCount:           count,
		SessionDurationSeconds: durationSeconds,
		FallbackCount:          fallbacks,
	})

	if decision.ShouldEscalate {
		if _, err := c.escalationService.RecordEscalation(ctx, session.Id, decision); err != nil {
			if errors.Is(err, apperrors.ErrStaleSession) || errors.Is(err, apperrors.ErrSessionNotFound) {
				c.logger.Warn("Chat", "Escalation rejected by state store", map[string]interface{}{
					"session_id": session.Id,
					"error":      err.Error(),
				})
				return nil
			}
			c.logger.Error("Chat", "Failed to record escalation", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
			c.notificationService.BroadcastMessage(roomId, "system", fallbackApology)
			return nil
		}
		// Fan-out to the room and agents happens through the consumer.
		return nil
	}

	c.respond(ctx, session, roomId, message)
	return nil
}

func (c *chatService) respond(ctx context.Context, session *entity.Session, roomId, message string) {
	c.notificationService.Typing(roomId, true)
	defer c.notificationService.Typing(roomId, false)

	response, err := c.provider.Generate(ctx, message)
	if err != nil {
		fallbacks := c.counters.RecordFallback(session.Id.String())
		c.logger.Error("Chat", "Response generation failed", map[string]interface{}{
			"session_id": session.Id,
			"fallbacks":  fallbacks,
			"error":      err.Error(),
		})
		c.notificationService.BroadcastMessage(roomId, "ai", fallbackApology)
		return
	}

	c.counters.ResetFallbacks(session.Id.String())
	c.notificationService.BroadcastMessage(roomId, "ai", response)
}

package service

import (
	"context"
	"fmt"
	"time"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/websocket"
)

// userEscalationNotice is the user-facing message shown in the session
// room when a handoff is triggered.
const userEscalationNotice = "We're connecting you to a support agent who can better assist you. Please hold on."

// INotificationService translates lifecycle events into websocket frames
// for the session room and the shared agents room. Delivery is
// at-most-once; failures are logged and swallowed by the hub.
type INotificationService interface {
	NotifyEscalation(msg *dto.EscalationRecordedMessage)
	NotifyAgentJoined(payload *dto.AgentJoinedPayload)
	NotifySessionClosed(payload *dto.SessionClosedPayload)
	ReplayPending(ctx context.Context, client *websocket.Client)
	BroadcastMessage(roomId, role, message string)
	Typing(roomId string, typing bool)
}

type notificationService struct {
	hub               *websocket.Hub
	escalationService IEscalationService
	logger            logger.ILogger
}

func NewNotificationService(
	hub *websocket.Hub,
	escalationService IEscalationService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		hub:               hub,
		escalationService: escalationService,
		logger:            log,
	}
}

// NotifyEscalation fans one recorded escalation out to its two
// destinations: the session's own room and the agents room.
func (n *notificationService) NotifyEscalation(msg *dto.EscalationRecordedMessage) {
	n.BroadcastMessage(msg.RoomId, "system", userEscalationNotice)

	n.hub.Broadcast(msg.RoomId, "escalation_triggered", dto.EscalationTriggeredPayload{
		SessionId: msg.SessionId.String(),
		Reasons:   msg.Reasons,
		Priority:  msg.Priority,
		RoomId:    msg.RoomId,
	})

	n.hub.Broadcast(websocket.AgentsRoom, "escalation_pending", dto.EscalationPendingPayload{
		RoomId:       msg.RoomId,
		SessionId:    msg.SessionId.String(),
		UserName:     msg.UserName,
		Status:       "pending",
		Priority:     msg.Priority,
		Reason:       msg.Reason,
		CreatedAt:    msg.TriggeredAt,
		EscalationId: msg.EscalationId.String(),
		UniqueKey:    fmt.Sprintf("escalation_%s", msg.EscalationId),
	})
}

func (n *notificationService) NotifyAgentJoined(payload *dto.AgentJoinedPayload) {
	n.hub.Broadcast(payload.RoomId, "agent_joined", payload)
	n.hub.Broadcast(websocket.AgentsRoom, "agent_joined", payload)
}

func (n *notificationService) NotifySessionClosed(payload *dto.SessionClosedPayload) {
	n.hub.Broadcast(payload.RoomId, "session_closed", payload)
	n.hub.Broadcast(websocket.AgentsRoom, "session_closed", payload)
}

// ReplayPending sends the current pending backlog to one newly connected
// agent so its dashboard converges with stored state.
func (n *notificationService) ReplayPending(ctx context.Context, client *websocket.Client) {
	backlog, err := n.escalationService.PendingEscalations(ctx, 0)
	if err != nil {
		n.logger.Error("Notification", "Failed to load pending backlog", map[string]interface{}{
			"client_id": client.ID,
			"error":     err.Error(),
		})
		return
	}

	for _, payload := range backlog {
		n.hub.SendDirect(client, "escalation_pending", payload)
	}

	n.logger.Info("Notification", "Replayed pending backlog", map[string]interface{}{
		"client_id": client.ID,
		"count":     len(backlog),
	})
}

func (n *notificationService) BroadcastMessage(roomId, role, message string) {
	n.hub.Broadcast(roomId, "new_message", dto.NewMessagePayload{
		RoomId:    roomId,
		Role:      role,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (n *notificationService) Typing(roomId string, typing bool) {
	n.hub.Broadcast(roomId, "ai_typing", dto.AiTypingPayload{
		RoomId: roomId,
		Typing: typing,
	})
}

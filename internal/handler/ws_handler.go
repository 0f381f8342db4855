package handler

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/pkg/serverutils"
	"telecom-support-be/internal/service"
	internalWS "telecom-support-be/internal/websocket"
)

// SupportWsHandler terminates the two websocket surfaces: customer
// connections scoped to one session room, and agent connections that
// live in the shared agents room and hop in and out of session rooms.
type SupportWsHandler struct {
	hub                 *internalWS.Hub
	chatService         service.IChatService
	escalationService   service.IEscalationService
	notificationService service.INotificationService
	logger              logger.ILogger
}

func NewSupportWsHandler(
	hub *internalWS.Hub,
	chatService service.IChatService,
	escalationService service.IEscalationService,
	notificationService service.INotificationService,
	log logger.ILogger,
) *SupportWsHandler {
	return &SupportWsHandler{
		hub:                 hub,
		chatService:         chatService,
		escalationService:   escalationService,
		notificationService: notificationService,
		logger:              log,
	}
}

// ServeChat handles customer connections: /ws/chat?room_id=...&user_id=...
func (h *SupportWsHandler) ServeChat(c *fiber.Ctx) error {
	roomId := c.Query("room_id")
	userId := c.Query("user_id")
	userName := c.Query("user_name")

	if roomId == "" || userId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "room_id and user_id are required"})
	}

	// Get-or-create the session before the upgrade so a broken state
	// store rejects the handshake instead of a live socket.
	if _, err := h.escalationService.GetOrCreateSession(c.Context(), roomId, userId, userName); err != nil {
		h.logger.Error("WsHandler", "Failed to resolve session on connect", map[string]interface{}{
			"room_id": roomId,
			"error":   err.Error(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open session"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("WsHandler", "Customer connected", map[string]interface{}{"room_id": roomId, "user_id": userId})
			internalWS.ServeWs(h.hub, conn, userId, false, []string{roomId}, h.customerFrame(roomId, userId, userName), nil)
			h.logger.Info("WsHandler", "Customer disconnected", map[string]interface{}{"room_id": roomId, "user_id": userId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// ServeAgent handles agent dashboard connections: /ws/agent?token=...
func (h *SupportWsHandler) ServeAgent(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	agentId, ok := serverutils.ParseAgentToken(tokenStr)
	if !ok {
		h.logger.Warn("WsHandler", "Invalid token in agent WS handshake", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("WsHandler", "Agent connected", map[string]interface{}{"agent_id": agentId})
			internalWS.ServeWs(h.hub, conn, agentId, true, []string{internalWS.AgentsRoom}, h.agentFrame(agentId), func(client *internalWS.Client) {
				h.notificationService.ReplayPending(context.Background(), client)
			})
			h.logger.Info("WsHandler", "Agent disconnected", map[string]interface{}{"agent_id": agentId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *SupportWsHandler) customerFrame(roomId, userId, userName string) func(*internalWS.Client, internalWS.InboundFrame) {
	return func(client *internalWS.Client, frame internalWS.InboundFrame) {
		switch frame.Event {
		case "user_message":
			var payload struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.Message == "" {
				return
			}
			if err := h.chatService.HandleUserMessage(context.Background(), roomId, userId, userName, payload.Message); err != nil {
				h.logger.Error("WsHandler", "Failed to handle user message", map[string]interface{}{
					"room_id": roomId,
					"error":   err.Error(),
				})
			}
		default:
			h.logger.Warn("WsHandler", "Unknown customer frame", map[string]interface{}{"event": frame.Event})
		}
	}
}

func (h *SupportWsHandler) agentFrame(agentId string) func(*internalWS.Client, internalWS.InboundFrame) {
	return func(client *internalWS.Client, frame internalWS.InboundFrame) {
		var payload struct {
			RoomId  string `json:"room_id"`
			Message string `json:"message"`
			Reason  string `json:"reason"`
		}
		if len(frame.Data) > 0 {
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				return
			}
		}

		switch frame.Event {
		case "agent_join_room":
			h.agentJoinRoom(client, agentId, payload.RoomId)
		case "agent_leave_room":
			if payload.RoomId != "" {
				h.hub.LeaveRoom(client, payload.RoomId)
			}
		case "agent_message":
			if payload.RoomId != "" && payload.Message != "" {
				h.notificationService.BroadcastMessage(payload.RoomId, "agent", payload.Message)
			}
		case "close_session":
			h.closeSession(client, agentId, payload.RoomId, payload.Reason)
		default:
			h.logger.Warn("WsHandler", "Unknown agent frame", map[string]interface{}{"event": frame.Event, "agent_id": agentId})
		}
	}
}

func (h *SupportWsHandler) agentJoinRoom(client *internalWS.Client, agentId, roomId string) {
	if roomId == "" {
		return
	}

	session, err := h.escalationService.GetSessionByRoom(context.Background(), roomId)
	if err != nil || session == nil {
		h.logger.Warn("WsHandler", "Agent joined unknown room", map[string]interface{}{"room_id": roomId, "agent_id": agentId})
		return
	}

	if _, err := h.escalationService.AssignAgent(context.Background(), session.Id, agentId); err != nil {
		h.logger.Error("WsHandler", "Failed to assign agent", map[string]interface{}{
			"room_id":  roomId,
			"agent_id": agentId,
			"error":    err.Error(),
		})
		return
	}

	h.hub.JoinRoom(client, roomId)
}

func (h *SupportWsHandler) closeSession(client *internalWS.Client, agentId, roomId, reason string) {
	if roomId == "" {
		return
	}

	session, err := h.escalationService.GetSessionByRoom(context.Background(), roomId)
	if err != nil || session == nil {
		return
	}

	if err := h.escalationService.CloseSession(context.Background(), session.Id, agentId, reason); err != nil {
		h.logger.Error("WsHandler", "Failed to close session", map[string]interface{}{
			"room_id": roomId,
			"error":   err.Error(),
		})
		return
	}

	h.hub.LeaveRoom(client, roomId)
}

// RegisterRoutes registers the websocket endpoints.
func (h *SupportWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat", h.ServeChat)
	router.Get("/ws/agent", h.ServeAgent)
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/repository/memory"
	ws "telecom-support-be/internal/websocket"
	"telecom-support-be/pkg/escalation"
)

// drainFrames decodes everything currently buffered on a client's Send
// channel.
func drainFrames(t *testing.T, client *ws.Client) []ws.Frame {
	t.Helper()
	var frames []ws.Frame
	for {
		select {
		case raw := <-client.Send:
			var frame ws.Frame
			assert.NoError(t, json.Unmarshal(raw, &frame))
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func newRoomClient(hub *ws.Hub, id string, rooms ...string) *ws.Client {
	client := &ws.Client{
		Hub:   hub,
		ID:    id,
		Rooms: make(map[string]bool),
		Send:  make(chan []byte, 64),
	}
	for _, room := range rooms {
		hub.JoinRoom(client, room)
	}
	return client
}

func dataField(t *testing.T, frame ws.Frame) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(frame.Data)
	assert.NoError(t, err)
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestNotifyEscalationFanOut(t *testing.T) {
	hub := ws.NewHub(nil, nopLogger{})
	user := newRoomClient(hub, "user-conn", "room-1")
	agent := newRoomClient(hub, "agent-conn", ws.AgentsRoom)

	factory := memory.NewRepositoryFactory()
	svc := NewEscalationService(factory, &capturePublisher{}, nopLogger{})
	notifier := NewNotificationService(hub, svc, nopLogger{})

	escalationId := uuid.New()
	sessionId := uuid.New()
	notifier.NotifyEscalation(&dto.EscalationRecordedMessage{
		EscalationId: escalationId,
		SessionId:    sessionId,
		RoomId:       "room-1",
		UserName:     "Alice",
		Reasons:      []string{"Low confidence (0.50 < 0.60)"},
		Reason:       "Low confidence (0.50 < 0.60)",
		Priority:     string(escalation.PriorityLow),
		TriggeredAt:  time.Now().Format(time.RFC3339),
	})

	userFrames := drainFrames(t, user)
	assert.Len(t, userFrames, 2)
	assert.Equal(t, "new_message", userFrames[0].Event)
	notice := dataField(t, userFrames[0])
	assert.Equal(t, "system", notice["role"])
	assert.Equal(t, "room-1", notice["room_id"])

	assert.Equal(t, "escalation_triggered", userFrames[1].Event)
	triggered := dataField(t, userFrames[1])
	assert.Equal(t, sessionId.String(), triggered["session_id"])
	assert.Equal(t, "room-1", triggered["room_id"])
	assert.Equal(t, "low", triggered["priority"])
	assert.Equal(t, []interface{}{"Low confidence (0.50 < 0.60)"}, triggered["reasons"])

	agentFrames := drainFrames(t, agent)
	assert.Len(t, agentFrames, 1)
	assert.Equal(t, "escalation_pending", agentFrames[0].Event)
	pending := dataField(t, agentFrames[0])
	assert.Equal(t, "room-1", pending["roomId"])
	assert.Equal(t, sessionId.String(), pending["sessionId"])
	assert.Equal(t, "Alice", pending["userName"])
	assert.Equal(t, "pending", pending["status"])
	assert.Equal(t, "low", pending["priority"])
	assert.Equal(t, escalationId.String(), pending["escalationId"])
	assert.Equal(t, "escalation_"+escalationId.String(), pending["uniqueKey"])
}

func TestNotifyAgentJoinedReachesBothRooms(t *testing.T) {
	hub := ws.NewHub(nil, nopLogger{})
	user := newRoomClient(hub, "user-conn", "room-1")
	agent := newRoomClient(hub, "agent-conn", ws.AgentsRoom)

	factory := memory.NewRepositoryFactory()
	svc := NewEscalationService(factory, &capturePublisher{}, nopLogger{})
	notifier := NewNotificationService(hub, svc, nopLogger{})

	notifier.NotifyAgentJoined(&dto.AgentJoinedPayload{
		RoomId:    "room-1",
		AgentId:   "agent-7",
		Timestamp: time.Now().Format(time.RFC3339),
	})

	for _, client := range []*ws.Client{user, agent} {
		frames := drainFrames(t, client)
		assert.Len(t, frames, 1)
		assert.Equal(t, "agent_joined", frames[0].Event)
		data := dataField(t, frames[0])
		assert.Equal(t, "room-1", data["roomId"])
		assert.Equal(t, "agent-7", data["agentId"])
	}
}

func TestNotifySessionClosedReachesBothRooms(t *testing.T) {
	hub := ws.NewHub(nil, nopLogger{})
	user := newRoomClient(hub, "user-conn", "room-1")
	agent := newRoomClient(hub, "agent-conn", ws.AgentsRoom)

	factory := memory.NewRepositoryFactory()
	svc := NewEscalationService(factory, &capturePublisher{}, nopLogger{})
	notifier := NewNotificationService(hub, svc, nopLogger{})

	notifier.NotifySessionClosed(&dto.SessionClosedPayload{
		RoomId:    "room-1",
		AgentId:   "agent-7",
		Reason:    "resolved",
		Timestamp: time.Now().Format(time.RFC3339),
	})

	for _, client := range []*ws.Client{user, agent} {
		frames := drainFrames(t, client)
		assert.Len(t, frames, 1)
		assert.Equal(t, "session_closed", frames[0].Event)
		data := dataField(t, frames[0])
		assert.Equal(t, "room-1", data["room_id"])
		assert.Equal(t, "agent-7", data["agent_id"])
		assert.Equal(t, "resolved", data["reason"])
	}
}

func TestReplayPendingSendsBacklogToOneClient(t *testing.T) {
	hub := ws.NewHub(nil, nopLogger{})
	agent := newRoomClient(hub, "agent-conn", ws.AgentsRoom)
	bystander := newRoomClient(hub, "other-agent", ws.AgentsRoom)

	factory := memory.NewRepositoryFactory()
	svc := NewEscalationService(factory, &capturePublisher{}, nopLogger{})
	notifier := NewNotificationService(hub, svc, nopLogger{})

	for i := 0; i < 3; i++ {
		session, err := svc.GetOrCreateSession(context.Background(), "room-"+uuid.NewString(), "u1", "Alice")
		assert.NoError(t, err)
		_, err = svc.RecordEscalation(context.Background(), session.Id, escalation.Decision{
			ShouldEscalate: true,
			Priority:       escalation.PriorityMedium,
			Reasons:        []string{"Long conversation (12 messages)"},
		})
		assert.NoError(t, err)
	}

	notifier.ReplayPending(context.Background(), agent)

	frames := drainFrames(t, agent)
	assert.Len(t, frames, 3)
	for _, frame := range frames {
		assert.Equal(t, "escalation_pending", frame.Event)
		data := dataField(t, frame)
		assert.Equal(t, "pending", data["status"])
		assert.NotEmpty(t, data["uniqueKey"])
	}

	// Replay is per-connection, not a room broadcast.
	assert.Empty(t, drainFrames(t, bystander))
}

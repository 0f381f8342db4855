package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"telecom-support-be/internal/pkg/logger"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }
func (quietLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

func newTestClient(hub *Hub, id string, buffer int, rooms ...string) *Client {
	client := &Client{
		Hub:   hub,
		ID:    id,
		Rooms: make(map[string]bool),
		Send:  make(chan []byte, buffer),
	}
	for _, room := range rooms {
		client.Rooms[room] = true
	}
	return client
}

func receiveFrame(t *testing.T, client *Client) Frame {
	t.Helper()
	select {
	case raw := <-client.Send:
		var frame Frame
		assert.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func TestBroadcastRoomIsolation(t *testing.T) {
	hub := NewHub(nil, quietLogger{})

	a := newTestClient(hub, "a", 8)
	b := newTestClient(hub, "b", 8)
	hub.JoinRoom(a, "room-1")
	hub.JoinRoom(b, "room-2")

	hub.Broadcast("room-1", "new_message", map[string]string{"room_id": "room-1", "message": "hi"})

	frame := receiveFrame(t, a)
	assert.Equal(t, "new_message", frame.Event)

	select {
	case <-b.Send:
		t.Fatal("client outside the room received the broadcast")
	default:
	}
}

func TestBroadcastReachesAllRoomMembers(t *testing.T) {
	hub := NewHub(nil, quietLogger{})

	clients := []*Client{
		newTestClient(hub, "a", 8),
		newTestClient(hub, "b", 8),
		newTestClient(hub, "c", 8),
	}
	for _, c := range clients {
		hub.JoinRoom(c, AgentsRoom)
	}
	assert.Equal(t, 3, hub.RoomSize(AgentsRoom))

	hub.Broadcast(AgentsRoom, "escalation_pending", map[string]string{"uniqueKey": "escalation_x"})

	for _, c := range clients {
		frame := receiveFrame(t, c)
		assert.Equal(t, "escalation_pending", frame.Event)
	}
}

func TestRegisterAndUnregisterThroughRun(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	client := newTestClient(hub, "a", 8, "room-1", AgentsRoom)
	hub.register <- client

	assert.Eventually(t, func() bool {
		return hub.RoomSize("room-1") == 1 && hub.RoomSize(AgentsRoom) == 1
	}, time.Second, 5*time.Millisecond)

	hub.unregister <- client

	assert.Eventually(t, func() bool {
		return hub.RoomSize("room-1") == 0 && hub.RoomSize(AgentsRoom) == 0
	}, time.Second, 5*time.Millisecond)

	// Unregistration closes the outbound channel.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestLeaveRoomKeepsOtherMemberships(t *testing.T) {
	hub := NewHub(nil, quietLogger{})

	client := newTestClient(hub, "a", 8)
	hub.JoinRoom(client, "room-1")
	hub.JoinRoom(client, AgentsRoom)

	hub.LeaveRoom(client, "room-1")

	assert.Equal(t, 0, hub.RoomSize("room-1"))
	assert.Equal(t, 1, hub.RoomSize(AgentsRoom))
	assert.False(t, client.Rooms["room-1"])
	assert.True(t, client.Rooms[AgentsRoom])
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	slow := newTestClient(hub, "slow", 1, "room-1")
	healthy := newTestClient(hub, "healthy", 8, "room-1")
	hub.register <- slow
	hub.register <- healthy

	assert.Eventually(t, func() bool {
		return hub.RoomSize("room-1") == 2
	}, time.Second, 5*time.Millisecond)

	// First broadcast fills the slow client's buffer, the second
	// overflows it and triggers the drop.
	hub.Broadcast("room-1", "new_message", map[string]string{"message": "one"})
	hub.Broadcast("room-1", "new_message", map[string]string{"message": "two"})

	assert.Eventually(t, func() bool {
		return hub.RoomSize("room-1") == 1
	}, time.Second, 5*time.Millisecond)

	// The healthy client got both messages.
	receiveFrame(t, healthy)
	receiveFrame(t, healthy)
}

func TestConcurrentBroadcastSurvivesClientDrop(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	// Clients with tiny buffers get dropped mid-broadcast; concurrent
	// broadcasters must never hit their closed Send channels.
	for i := 0; i < 4; i++ {
		client := newTestClient(hub, "slow", 1, "room-1")
		hub.register <- client
	}
	keeper := newTestClient(hub, "keeper", 1024, "room-1")
	hub.register <- keeper

	assert.Eventually(t, func() bool {
		return hub.RoomSize("room-1") == 5
	}, time.Second, 5*time.Millisecond)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				hub.Broadcast("room-1", "new_message", map[string]string{"message": "flood"})
			}
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return hub.RoomSize("room-1") == 1
	}, time.Second, 5*time.Millisecond)

	// The surviving client still receives after the churn.
	hub.Broadcast("room-1", "new_message", map[string]string{"message": "after"})
	for {
		frame := receiveFrame(t, keeper)
		data, _ := json.Marshal(frame.Data)
		if string(data) == `{"message":"after"}` {
			break
		}
	}
}

func TestSendDirectBypassesRooms(t *testing.T) {
	hub := NewHub(nil, quietLogger{})

	target := newTestClient(hub, "target", 8, AgentsRoom)
	other := newTestClient(hub, "other", 8)
	hub.JoinRoom(target, AgentsRoom)
	hub.JoinRoom(other, AgentsRoom)

	hub.SendDirect(target, "escalation_pending", map[string]string{"uniqueKey": "escalation_x"})

	frame := receiveFrame(t, target)
	assert.Equal(t, "escalation_pending", frame.Event)

	select {
	case <-other.Send:
		t.Fatal("SendDirect leaked to another client")
	default:
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"telecom-support-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AgentsRoom is the shared room every connected support agent joins.
// Session rooms use the session's room id.
const AgentsRoom = "agents"

const clusterChannel = "cluster_events"

// Frame is the wire envelope for every outbound message.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Hub struct {
	// Registered clients map: room id -> set of clients
	rooms map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Identifies this instance so it can skip its own cluster messages.
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			for room := range client.Rooms {
				h.addToRoom(client, room)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ID, "agent": client.IsAgent})

		case client := <-h.unregister:
			h.mu.Lock()
			removed := false
			for room := range client.Rooms {
				if members, ok := h.rooms[room]; ok && members[client] {
					delete(members, client)
					removed = true
					if len(members) == 0 {
						delete(h.rooms, room)
					}
				}
			}
			h.mu.Unlock()
			client.closeSend()
			if removed {
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ID})
			}
		}
	}
}

// JoinRoom adds an already registered client to a room.
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	client.Rooms[room] = true
	h.addToRoom(client, room)
	h.mu.Unlock()
}

// LeaveRoom removes the client from one room without disconnecting it.
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	delete(client.Rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// caller must hold h.mu
func (h *Hub) addToRoom(client *Client, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
}

// Broadcast sends an event to every client in the room, on this instance
// and via Redis on every other instance. Delivery is at-most-once: a
// client whose buffer is full is dropped rather than blocking the room.
func (h *Hub) Broadcast(roomID string, event string, data interface{}) {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal frame", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.deliverLocal(roomID, payload)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":  h.instanceID,
			"room_id": roomID,
			"message": json.RawMessage(payload),
		})
		h.rdb.Publish(context.Background(), clusterChannel, envelope)
	}
}

// SendDirect delivers an event to a single client only, bypassing rooms.
// Used for per-connection replies such as the pending backlog replay.
func (h *Hub) SendDirect(client *Client, event string, data interface{}) {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal frame", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}
	if !client.trySend(payload) {
		h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"client_id": client.ID})
		h.unregister <- client
	}
}

// RoomSize reports how many clients are currently in the room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) deliverLocal(roomID string, payload []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for client := range h.rooms[roomID] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		if !client.trySend(payload) {
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"client_id": client.ID, "room_id": roomID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin  string          `json:"origin"`
			RoomID  string          `json:"room_id"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Local clients already got this message before it was published.
		if payload.Origin == h.instanceID {
			continue
		}

		h.deliverLocal(payload.RoomID, payload.Message)
	}
}

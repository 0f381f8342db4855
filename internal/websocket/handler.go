package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a new connection to the hub. Customers land in their
// session room; agents land in the shared agents room. onFrame receives
// every inbound frame, onReady fires once the client is registered (used
// to replay the pending backlog to agents).
func ServeWs(hub *Hub, c *websocket.Conn, id string, isAgent bool, rooms []string, onFrame func(*Client, InboundFrame), onReady func(*Client)) {
	client := &Client{
		Hub:     hub,
		Conn:    c,
		ID:      id,
		IsAgent: isAgent,
		Rooms:   make(map[string]bool, len(rooms)),
		Send:    make(chan []byte, 256),
		OnFrame: onFrame,
	}
	for _, room := range rooms {
		client.Rooms[room] = true
	}
	client.Hub.register <- client

	if onReady != nil {
		onReady(client)
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}

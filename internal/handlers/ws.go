package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/gorilla/websocket"
)

type WSHub struct {
	connections map[*websocket.Conn]bool
	mutex       sync.Mutex
}

func NewWSHub() *WSHub {
	return &WSHub{connections: make(map[*websocket.Conn]bool)}
}

// BroadcastTaskEvent sends a task lifecycle event to every connected client.
func (hub *WSHub) BroadcastTaskEvent(event string, task *models.Task) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	message, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"task_id": task.ID,
		"name":    task.Name,
		"status":  task.StatusID,
	})
	if err != nil {
		log.Printf("Failed to marshal task event: %v", err)
		return
	}

	for conn := range hub.connections {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to send WebSocket message: %v", err)
			delete(hub.connections, conn)
			conn.Close()
		}
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Adjust for production (e.g., check specific origins)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.Hub.mutex.Lock()
	h.Hub.connections[conn] = true
	h.Hub.mutex.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Hub.mutex.Lock()
			delete(h.Hub.connections, conn)
			h.Hub.mutex.Unlock()
			conn.Close()
			return
		}
	}
}

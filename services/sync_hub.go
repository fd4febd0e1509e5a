package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// SyncEvent is one admin-facing notification: an import finishing, a
// matching pass, or a fresh drift report.
type SyncEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WSClient struct {
	Conn *websocket.Conn
}

// SyncHub fans sync events out to every connected admin client.
type SyncHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewSyncHub() *SyncHub {
	return &SyncHub{clients: make(map[*WSClient]struct{})}
}

func (h *SyncHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *SyncHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *SyncHub) Broadcast(event SyncEvent) {
	msg, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}

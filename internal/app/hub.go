// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/minevisit/internal/visit"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the page is served to a browser on the field unit itself
	},
}

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// WSMessage is pushed to every connected page.
type WSMessage struct {
	Type    string       `json:"type"` // state, alert
	State   *visit.State `json:"state,omitempty"`
	Message string       `json:"message,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan WSMessage
}

// Hub fans controller updates and notifications out to websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*wsClient]struct{})}
}

// Notify pushes a blocking alert to every connected page.
func (h *Hub) Notify(message string) {
	h.broadcast(WSMessage{Type: "alert", Message: message})
}

// Forward pushes every state update until ctx is done.
func (h *Hub) Forward(ctx context.Context, updates <-chan visit.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-updates:
			h.broadcast(WSMessage{Type: "state", State: &st})
		}
	}
}

func (h *Hub) broadcast(msg WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Printf("web: websocket client too slow, dropping %s message", msg.Type)
		}
	}
}

// HandleWS upgrades the connection and registers the page.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan WSMessage, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("web: websocket client connected from %s", r.RemoteAddr)

	go c.writeLoop()

	// The page never sends anything; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	log.Printf("web: websocket client %s disconnected", r.RemoteAddr)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close()
	}
}

func (c *wsClient) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("web: websocket write error: %v", err)
			return
		}
	}
}

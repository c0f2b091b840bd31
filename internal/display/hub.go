// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/hectic_snap/internal/decision"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Hub streams statuses to websocket clients. New clients receive the most
// recent status immediately.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    decision.Status
	haveAny bool
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:     log.With("component", "hub"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Show records st and writes it to every client, dropping clients whose
// write fails.
func (h *Hub) Show(st decision.Status) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = st
	h.haveAny = true
	for conn := range h.clients {
		if err := writeStatus(conn, st); err != nil {
			h.log.Debug("hub: dropping client", "remote", conn.RemoteAddr(), "err", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
	return nil
}

// Last returns the most recent status, if any.
func (h *Hub) Last() (decision.Status, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.haveAny
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("hub: websocket upgrade error", "err", err)
		return
	}

	h.mu.Lock()
	if h.haveAny {
		if err := writeStatus(conn, h.last); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("hub: client connected", "remote", conn.RemoteAddr())

	// Clients only listen; read until the connection goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("hub: websocket error", "err", err)
			}
			break
		}
	}

	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func writeStatus(conn *websocket.Conn, st decision.Status) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(st)
}

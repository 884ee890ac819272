// Websocket draw feed
//
// Copyright (c) 2025, 2026  The go-tombola authors
//
// This file is part of go-tombola.
//
// go-tombola is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-tombola is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-tombola. If not, see
// <http://www.gnu.org/licenses/>

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	tombola "go-tombola"
)

// drawEvent is pushed to every watcher after each extraction.
type drawEvent struct {
	GameID           string         `json:"game_id"`
	Number           tombola.Number `json:"number"`
	TotalExtracted   int            `json:"total_extracted"`
	NumbersRemaining int            `json:"numbers_remaining"`
	PublishedScore   int            `json:"published_score"`
}

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	// the API is open to any origin
	CheckOrigin: func(*http.Request) bool { return true },
}

type subscriber struct {
	conn *websocket.Conn
	send chan drawEvent
}

// hub fans draw events of one game out to its watchers.  A watcher
// whose connection cannot keep up is dropped rather than allowed to
// stall the feed.
type hub struct {
	mu   sync.Mutex
	subs map[*subscriber]bool
	log  *zap.Logger
}

func (h *hub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = true
}

func (h *hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sub] {
		delete(h.subs, sub)
		close(sub.send)
	}
}

func (h *hub) broadcast(ev drawEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- ev:
		default:
			h.log.Warn("Dropping slow watcher",
				zap.String("game", ev.GameID))
			delete(h.subs, sub)
			close(sub.send)
		}
	}
}

// hubSet holds one hub per watched game.
type hubSet struct {
	mu   sync.Mutex
	hubs map[string]*hub
	log  *zap.Logger
}

func newHubSet(log *zap.Logger) *hubSet {
	return &hubSet{hubs: make(map[string]*hub), log: log}
}

func (s *hubSet) get(game string) *hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hubs[game]
	if !ok {
		h = &hub{subs: make(map[*subscriber]bool), log: s.log}
		s.hubs[game] = h
	}
	return h
}

func (s *hubSet) broadcast(game string, ev drawEvent) {
	s.mu.Lock()
	h, ok := s.hubs[game]
	s.mu.Unlock()
	if ok {
		h.broadcast(ev)
	}
}

func (s *hubSet) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hubs {
		h.mu.Lock()
		for sub := range h.subs {
			delete(h.subs, sub)
			close(sub.send)
		}
		h.mu.Unlock()
	}
}

// GET /{game_id}/watch
func (s *web) watch(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.conf.Log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan drawEvent, 16)}
	h := s.hubs.get(g.ID)
	h.add(sub)

	go func() {
		for ev := range sub.send {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				break
			}
		}
		conn.Close()
	}()

	// consume control frames until the watcher hangs up
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
	conn.Close()
}

// Game registry
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

package game

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	tombola "go-tombola"
)

// Registry owns all games of the process.  Games are never removed;
// a finished game stays addressable until shutdown.
type Registry struct {
	mu     sync.Mutex
	games  map[string]*Game
	dumper *Dumper
	log    *zap.Logger
}

// NewRegistry returns a registry dumping game state via DUMPER.
func NewRegistry(dumper *Dumper, log *zap.Logger) *Registry {
	return &Registry{
		games:  make(map[string]*Game),
		dumper: dumper,
		log:    log,
	}
}

// Get resolves a game id.
func (r *Registry) Get(id string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Create starts a new game owned by the board client OWNER.  Every
// game still active at this point is flushed to disk first, best
// effort: a failed flush is logged and does not block the new game.
func (r *Registry) Create(owner string) *Game {
	for _, g := range r.snapshot() {
		if g.Status() != Active {
			continue
		}
		if file, err := g.Dump(); err != nil {
			r.log.Warn("Failed to flush active game",
				zap.String("game", g.ID), zap.Error(err))
		} else {
			r.log.Info("Flushed active game",
				zap.String("game", g.ID), zap.String("file", file))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		id := tombola.NewGameID()
		if _, taken := r.games[id]; taken {
			continue
		}
		g := newGame(id, owner, r.dumper, r.log)
		r.games[id] = g
		r.log.Info("Created game",
			zap.String("game", id), zap.String("owner", owner))
		return g
	}
}

func (r *Registry) snapshot() []*Game {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games
}

// Summary is one entry of the game list.
type Summary struct {
	GameID           string    `json:"game_id"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	ClientCount      int       `json:"client_count"`
	ExtractedNumbers int       `json:"extracted_numbers"`
	Owner            string    `json:"owner"`
}

// List returns a point in time view of all games, oldest first.
func (r *Registry) List() []Summary {
	games := r.snapshot()
	out := make([]Summary, 0, len(games))
	for _, g := range games {
		info := g.Summary()
		out = append(out, Summary{
			GameID:           info.GameID,
			Status:           info.Status,
			CreatedAt:        info.CreatedAt,
			ClientCount:      info.Players,
			ExtractedNumbers: info.NumbersExtracted,
			Owner:            info.Owner,
		})
	}
	return out
}

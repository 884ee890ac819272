// Global request handlers
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
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	tombola "go-tombola"
	"go-tombola/game"
)

type registerRequest struct {
	Name       string             `json:"name"`
	ClientType tombola.ClientType `json:"client_type"`
	Email      string             `json:"email"`
}

type registerResponse struct {
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}

// POST /register
func (s *web) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		fail(w, http.StatusBadRequest, "client name must not be empty")
		return
	}
	if req.ClientType == "" {
		req.ClientType = tombola.PlayerClient
	}
	if !req.ClientType.Valid() {
		fail(w, http.StatusBadRequest, "client type must be player or board")
		return
	}

	info, created := s.dir.Register(req.Name, req.ClientType, req.Email)
	if created && s.conf.DB != nil {
		s.conf.DB.RecordClient(r.Context(), info)
	}
	respond(w, http.StatusOK, registerResponse{
		ClientID: info.ID,
		Message:  fmt.Sprintf("client %s registered", info.Name),
	})
}

type clientInfoResponse struct {
	ClientID     string             `json:"client_id"`
	Name         string             `json:"name"`
	ClientType   tombola.ClientType `json:"client_type"`
	RegisteredAt time.Time          `json:"registered_at"`
}

func clientInfo(info *tombola.ClientInfo) clientInfoResponse {
	return clientInfoResponse{
		ClientID:     info.ID,
		Name:         info.Name,
		ClientType:   info.Type,
		RegisteredAt: info.RegisteredAt,
	}
}

// GET /clientinfo?name=...
func (s *web) clientInfoByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		fail(w, http.StatusBadRequest, "missing name parameter")
		return
	}
	info, err := s.dir.LookupName(name)
	if err != nil {
		fail(w, http.StatusNotFound, "no client with that name")
		return
	}
	respond(w, http.StatusOK, clientInfo(info))
}

// GET /clientinfo/{client_id}
func (s *web) clientInfoByID(w http.ResponseWriter, r *http.Request) {
	info, err := s.dir.Lookup(mux.Vars(r)["client_id"])
	if err != nil {
		fail(w, http.StatusNotFound, "no client with that id")
		return
	}
	respond(w, http.StatusOK, clientInfo(info))
}

type newGameResponse struct {
	GameID     string    `json:"game_id"`
	CreatedAt  time.Time `json:"created_at"`
	BoardOwner string    `json:"board_owner"`
	Message    string    `json:"message"`
}

// POST /newgame
func (s *web) newGame(w http.ResponseWriter, r *http.Request) {
	info := s.client(w, r)
	if info == nil {
		return
	}

	g := s.reg.Create(info.ID)
	if s.conf.DB != nil {
		s.conf.DB.RecordGame(r.Context(), g.ID, g.Owner, g.CreatedAt)
	}
	respond(w, http.StatusOK, newGameResponse{
		GameID:     g.ID,
		CreatedAt:  g.CreatedAt,
		BoardOwner: g.Owner,
		Message:    fmt.Sprintf("game %s created", g.ID),
	})
}

type gamesListResponse struct {
	Games      []game.Summary `json:"games"`
	TotalGames int            `json:"total_games"`
}

// GET /gameslist
func (s *web) gamesList(w http.ResponseWriter, r *http.Request) {
	games := s.reg.List()
	respond(w, http.StatusOK, gamesListResponse{
		Games:      games,
		TotalGames: len(games),
	})
}

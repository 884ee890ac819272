// Game scoped request handlers
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

type joinRequest struct {
	Name       string             `json:"name"`
	ClientType tombola.ClientType `json:"client_type"`
	NoCard     int                `json:"nocard"`
	Email      string             `json:"email"`
}

type joinResponse struct {
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}

// POST /{game_id}/join
func (s *web) join(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}

	req := joinRequest{NoCard: 1}
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

	if _, err := g.Join(info.ID, req.ClientType, req.NoCard); err != nil {
		s.failErr(w, err)
		return
	}
	respond(w, http.StatusOK, joinResponse{
		ClientID: info.ID,
		Message:  fmt.Sprintf("client %s joined game %s", info.Name, g.ID),
	})
}

type cardRef struct {
	CardID     string `json:"card_id"`
	AssignedTo string `json:"assigned_to"`
}

type cardListResponse struct {
	Cards   []cardRef `json:"cards"`
	Message string    `json:"message,omitempty"`
}

func cardRefs(client string, ids []string) []cardRef {
	refs := make([]cardRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, cardRef{CardID: id, AssignedTo: client})
	}
	return refs
}

type generateRequest struct {
	Count int `json:"count"`
}

// POST /{game_id}/generatecards
func (s *web) generateCards(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	info := s.client(w, r)
	if info == nil {
		return
	}

	req := generateRequest{Count: 1}
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	ids, err := g.GenerateCards(info.ID, req.Count)
	if err != nil {
		s.failErr(w, err)
		return
	}
	respond(w, http.StatusOK, cardListResponse{
		Cards:   cardRefs(info.ID, ids),
		Message: fmt.Sprintf("%d cards assigned", len(ids)),
	})
}

// GET /{game_id}/listassignedcards
func (s *web) listAssignedCards(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	info := s.client(w, r)
	if info == nil {
		return
	}

	ids, err := g.AssignedCards(info.ID)
	if err != nil {
		s.failErr(w, err)
		return
	}
	respond(w, http.StatusOK, cardListResponse{Cards: cardRefs(info.ID, ids)})
}

type cardResponse struct {
	CardID   string           `json:"card_id"`
	CardData tombola.CardData `json:"card_data"`
}

// GET /{game_id}/getassignedcard/{card_id}
func (s *web) getAssignedCard(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	info := s.client(w, r)
	if info == nil {
		return
	}

	a, err := g.Card(info.ID, mux.Vars(r)["card_id"])
	if err != nil {
		s.failErr(w, err)
		return
	}
	respond(w, http.StatusOK, cardResponse{
		CardID:   a.CardID,
		CardData: a.CardData,
	})
}

// GET /{game_id}/board
func (s *web) board(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	respond(w, http.StatusOK, g.BoardState())
}

// GET /{game_id}/pouch
func (s *web) pouch(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	respond(w, http.StatusOK, g.PouchState())
}

// GET /{game_id}/status
func (s *web) status(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	respond(w, http.StatusOK, g.Summary())
}

// GET /{game_id}/scoremap
func (s *web) scoreMap(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	respond(w, http.StatusOK, g.Scores())
}

type playersResponse struct {
	GameID       string        `json:"game_id"`
	TotalPlayers int           `json:"total_players"`
	TotalCards   int           `json:"total_cards"`
	Players      []game.Player `json:"players"`
}

// GET /{game_id}/players
func (s *web) players(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	info := s.client(w, r)
	if info == nil {
		return
	}

	players, err := g.Players(info.ID)
	if err != nil {
		s.failErr(w, err)
		return
	}
	cards := 0
	for _, p := range players {
		cards += p.CardCount
	}
	respond(w, http.StatusOK, playersResponse{
		GameID:       g.ID,
		TotalPlayers: len(players),
		TotalCards:   cards,
		Players:      players,
	})
}

type extractResponse struct {
	ExtractedNumber  tombola.Number `json:"extracted_number"`
	NumbersRemaining int            `json:"numbers_remaining"`
	TotalExtracted   int            `json:"total_extracted"`
	PublishedScore   int            `json:"published_score"`
}

// POST /{game_id}/extract
func (s *web) extract(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	info := s.client(w, r)
	if info == nil {
		return
	}

	draw, err := g.Extract(info.ID)
	if err != nil {
		s.failErr(w, err)
		return
	}

	if s.conf.DB != nil {
		s.conf.DB.RecordDraw(r.Context(), g.ID, draw.Total, draw.Number, time.Now())
		if draw.Finished {
			s.conf.DB.RecordClose(r.Context(), g.ID, draw.Published, time.Now())
		}
	}
	s.hubs.broadcast(g.ID, drawEvent{
		GameID:           g.ID,
		Number:           draw.Number,
		TotalExtracted:   draw.Total,
		NumbersRemaining: draw.Remaining,
		PublishedScore:   draw.Published,
	})

	respond(w, http.StatusOK, extractResponse{
		ExtractedNumber:  draw.Number,
		NumbersRemaining: draw.Remaining,
		TotalExtracted:   draw.Total,
		PublishedScore:   draw.Published,
	})
}

type dumpResponse struct {
	GameID  string `json:"game_id"`
	File    string `json:"file"`
	Message string `json:"message"`
}

// POST /{game_id}/dumpgame
func (s *web) dumpGame(w http.ResponseWriter, r *http.Request) {
	g := s.lookup(w, r)
	if g == nil {
		return
	}
	info := s.client(w, r)
	if info == nil {
		return
	}

	file, err := g.DumpFor(info.ID)
	if err != nil {
		s.failErr(w, err)
		return
	}
	respond(w, http.StatusOK, dumpResponse{
		GameID:  g.ID,
		File:    file,
		Message: "game state dumped",
	})
}

// GET /{game_id}/audit
//
// The audit store outlives the in-memory registry, so the game is not
// resolved here; finished and flushed games stay queryable.
func (s *web) audit(w http.ResponseWriter, r *http.Request) {
	if s.conf.DB == nil {
		fail(w, http.StatusNotFound, "audit store disabled")
		return
	}
	rec := s.conf.DB.QueryGame(r.Context(), mux.Vars(r)["game_id"])
	if rec == nil {
		fail(w, http.StatusNotFound, "no audit record for this game")
		return
	}
	respond(w, http.StatusOK, rec)
}

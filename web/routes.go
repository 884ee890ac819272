// URL to handler mapping
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
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	tombola "go-tombola"
	"go-tombola/game"
)

var clientIDPattern = regexp.MustCompile(`^[0-9A-Fa-f]{16}$`)

func (s *web) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.tag, s.cors)
	r.NotFoundHandler = s.tag(s.cors(http.HandlerFunc(notFound)))
	r.MethodNotAllowedHandler = s.tag(s.cors(http.HandlerFunc(methodNotAllowed)))

	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/newgame", s.newGame).Methods(http.MethodPost)
	r.HandleFunc("/gameslist", s.gamesList).Methods(http.MethodGet)
	r.HandleFunc("/clientinfo", s.clientInfoByName).Methods(http.MethodGet)
	r.HandleFunc("/clientinfo/{client_id}", s.clientInfoByID).Methods(http.MethodGet)

	g := r.PathPrefix("/{game_id:game_[0-9a-f]{8}}").Subrouter()
	g.HandleFunc("/join", s.join).Methods(http.MethodPost)
	g.HandleFunc("/generatecards", s.generateCards).Methods(http.MethodPost)
	g.HandleFunc("/listassignedcards", s.listAssignedCards).Methods(http.MethodGet)
	g.HandleFunc("/getassignedcard/{card_id}", s.getAssignedCard).Methods(http.MethodGet)
	g.HandleFunc("/board", s.board).Methods(http.MethodGet)
	g.HandleFunc("/pouch", s.pouch).Methods(http.MethodGet)
	g.HandleFunc("/status", s.status).Methods(http.MethodGet)
	g.HandleFunc("/players", s.players).Methods(http.MethodGet)
	g.HandleFunc("/scoremap", s.scoreMap).Methods(http.MethodGet)
	g.HandleFunc("/extract", s.extract).Methods(http.MethodPost)
	g.HandleFunc("/dumpgame", s.dumpGame).Methods(http.MethodPost)
	g.HandleFunc("/audit", s.audit).Methods(http.MethodGet)
	if s.conf.WebSocket {
		g.HandleFunc("/watch", s.watch).Methods(http.MethodGet)
	}

	// preflight requests match here, the CORS middleware answers
	r.PathPrefix("/").Methods(http.MethodOptions).
		HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	return r
}

// tag assigns every request an id and logs it.
func (s *web) tag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.conf.Log.Info("Request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("client", r.Header.Get("X-Client-ID")))
		next.ServeHTTP(w, r)
	})
}

// cors answers preflight requests and relaxes the same origin policy
// on everything else.
func (s *web) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Client-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error string `json:"error"`
}

func fail(w http.ResponseWriter, status int, msg string) {
	respond(w, status, errorBody{Error: msg})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	fail(w, http.StatusNotFound, "no such resource")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	fail(w, http.StatusMethodNotAllowed, "method not allowed")
}

// failErr translates a game error into its HTTP status.
func (s *web) failErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrUnknownClient):
		status = http.StatusUnauthorized
	case errors.Is(err, game.ErrNotJoined),
		errors.Is(err, game.ErrNotOwner),
		errors.Is(err, game.ErrCardNotOwned):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrCardNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameStarted),
		errors.Is(err, game.ErrPouchEmpty),
		errors.Is(err, game.ErrBoardAlreadyPresent),
		errors.Is(err, game.ErrCardsAssigned):
		status = http.StatusConflict
	default:
		s.conf.Log.Error("Internal error", zap.Error(err))
	}
	fail(w, status, err.Error())
}

// client authenticates a request via the X-Client-ID header.
func (s *web) client(w http.ResponseWriter, r *http.Request) *tombola.ClientInfo {
	id := r.Header.Get("X-Client-ID")
	if !clientIDPattern.MatchString(id) {
		fail(w, http.StatusBadRequest, "missing or malformed X-Client-ID header")
		return nil
	}
	info, err := s.dir.Lookup(id)
	if err != nil {
		fail(w, http.StatusUnauthorized, "unknown client id")
		return nil
	}
	return info
}

// lookup resolves the game named in the request path.
func (s *web) lookup(w http.ResponseWriter, r *http.Request) *game.Game {
	g, err := s.reg.Get(mux.Vars(r)["game_id"])
	if err != nil {
		s.failErr(w, err)
		return nil
	}
	return g
}

// decode parses a JSON request body.
func decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		fail(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

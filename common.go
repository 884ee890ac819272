// Common types, constants and identifiers
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

package tombola

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"time"
)

// Number is a tombola number, always within [FirstNumber, LastNumber].
// It is deliberately not a byte sized type: encoding/json would render
// a []uint8 as a base64 string instead of an integer array.
type Number uint16

const (
	FirstNumber Number = 1
	LastNumber  Number = 90

	// Card geometry
	CardRows       = 3
	CardColumns    = 9
	NumbersPerRow  = 5
	NumbersPerCard = CardRows * NumbersPerRow
	CardsPerGroup  = 6
)

// ClientType is the per-game role of a client.
type ClientType string

const (
	PlayerClient ClientType = "player"
	BoardClient  ClientType = "board"
)

func (t ClientType) Valid() bool {
	return t == PlayerClient || t == BoardClient
}

// BoardClientID is the reserved identity of the synthetic board client
// and of its board-spanning pseudo-card.
const BoardClientID = "0000000000000000"

// BoardClientName is the reserved directory name of the board client.
const BoardClientName = "__BOARD__"

// ClientInfo is a globally registered client identity.  The email is
// internal only and must never appear in API responses or dumps.
type ClientInfo struct {
	ID           string     `json:"client_id"`
	Name         string     `json:"name"`
	Type         ClientType `json:"client_type"`
	RegisteredAt time.Time  `json:"registered_at"`
	Email        string     `json:"-"`
}

// GameRecord is an audit row describing one game, past or present.
type GameRecord struct {
	ID      string     `json:"game_id"`
	Owner   string     `json:"owner"`
	Created time.Time  `json:"created_at"`
	Score   int        `json:"published_score"`
	Ended   *time.Time `json:"closed_at,omitempty"`
}

var GameIDPattern = regexp.MustCompile(`^game_[0-9a-f]{8}$`)

func random64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("entropy source failed: " + err.Error())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// NewClientID returns a fresh 16 hex character client identifier.
func NewClientID() string {
	return fmt.Sprintf("%016X", random64())
}

// NewCardID returns a fresh 16 hex character card identifier.
func NewCardID() string {
	return fmt.Sprintf("%016X", random64())
}

// NewGameID returns a fresh game identifier of the form game_xxxxxxxx.
func NewGameID() string {
	return fmt.Sprintf("game_%08x", uint32(random64()))
}

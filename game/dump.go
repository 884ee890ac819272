// Game state dumps
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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	tombola "go-tombola"
)

// EpochTime is a wall clock instant split into seconds and
// nanoseconds since the Unix epoch, the representation used in dump
// files.
type EpochTime struct {
	Secs  int64 `json:"secs_since_epoch"`
	Nanos int64 `json:"nanos_since_epoch"`
}

func NewEpochTime(t time.Time) EpochTime {
	return EpochTime{Secs: t.Unix(), Nanos: int64(t.Nanosecond())}
}

func (e EpochTime) Time() time.Time {
	return time.Unix(e.Secs, e.Nanos)
}

// clientTypeRegistry wraps the per game role map for serialisation.
type clientTypeRegistry struct {
	ClientTypes map[string]tombola.ClientType `json:"client_types"`
}

// Snapshot is the serialised form of a game, as written to and read
// back from dump files.  Client emails never appear here.
type Snapshot struct {
	ID                string                `json:"id"`
	CreatedAt         EpochTime             `json:"created_at"`
	EndedAt           *EpochTime            `json:"game_ended_at"`
	Board             *tombola.Board        `json:"board"`
	Pouch             *tombola.Pouch        `json:"pouch"`
	ScoreCard         *tombola.ScoreCard    `json:"scorecard"`
	RegisteredClients []string              `json:"registered_clients"`
	ClientTypes       clientTypeRegistry    `json:"client_type_registry"`
	CardManager       *tombola.CardRegistry `json:"card_manager"`
}

// snapshot deep-copies the game state.  Called with the game lock
// held.
func (g *Game) snapshot() *Snapshot {
	s := &Snapshot{
		ID:          g.ID,
		CreatedAt:   NewEpochTime(g.CreatedAt),
		Board:       g.board.Copy(),
		Pouch:       g.pouch.Copy(),
		ScoreCard:   g.scores.Copy(),
		ClientTypes: clientTypeRegistry{ClientTypes: make(map[string]tombola.ClientType)},
		CardManager: g.cards.Copy(),
	}
	if g.endedAt != nil {
		e := NewEpochTime(*g.endedAt)
		s.EndedAt = &e
	}
	for client := range g.members {
		s.RegisteredClients = append(s.RegisteredClients, client)
	}
	sort.Strings(s.RegisteredClients)
	for client, typ := range g.types {
		s.ClientTypes.ClientTypes[client] = typ
	}
	return s
}

// Dumper writes game snapshots into a directory, never overwriting an
// existing file.
type Dumper struct {
	dir string
}

// NewDumper ensures DIR exists and returns a dumper writing into it.
func NewDumper(dir string) (*Dumper, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dump directory: %w", err)
	}
	return &Dumper{dir: dir}, nil
}

// Write stores S as pretty printed JSON and returns the file path.
// The preferred name is <game id>.json; when that file already exists
// a timestamp is appended to keep dumps append only.
func (d *Dumper) Write(s *Snapshot) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(d.dir, s.ID+".json")
	for {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			path = filepath.Join(d.dir, fmt.Sprintf("%s_%d.json",
				s.ID, time.Now().UnixNano()))
			continue
		} else if err != nil {
			return "", err
		}

		if _, err = f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		if err = f.Close(); err != nil {
			return "", err
		}
		return path, nil
	}
}

// ReadDump parses a dump file written by Write.
func ReadDump(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("malformed dump %s: %w", path, err)
	}
	return &s, nil
}

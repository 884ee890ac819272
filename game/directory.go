// Global client directory
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
	"sync"
	"time"

	tombola "go-tombola"
)

// Directory maps client names to stable identities, shared by all
// games.  A name registers once; later registrations under the same
// name return the original identity unchanged.
type Directory struct {
	mu     sync.Mutex
	byID   map[string]*tombola.ClientInfo
	byName map[string]string
}

// NewDirectory returns a directory pre-seeded with the reserved board
// identity.
func NewDirectory() *Directory {
	d := &Directory{
		byID:   make(map[string]*tombola.ClientInfo),
		byName: make(map[string]string),
	}
	board := &tombola.ClientInfo{
		ID:           tombola.BoardClientID,
		Name:         tombola.BoardClientName,
		Type:         tombola.BoardClient,
		RegisteredAt: time.Now(),
	}
	d.byID[board.ID] = board
	d.byName[board.Name] = board.ID
	return d
}

// Register ensures an identity for NAME and returns it.  The boolean
// is true when the identity was created by this call.  EMAIL is kept
// internally and never serialised.
func (d *Directory) Register(name string, typ tombola.ClientType, email string) (*tombola.ClientInfo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.byName[name]; ok {
		return d.byID[id], false
	}

	info := &tombola.ClientInfo{
		Name:         name,
		Type:         typ,
		RegisteredAt: time.Now(),
		Email:        email,
	}
	for {
		info.ID = tombola.NewClientID()
		if _, taken := d.byID[info.ID]; !taken {
			break
		}
	}
	d.byID[info.ID] = info
	d.byName[name] = info.ID
	return info, true
}

// Lookup resolves a client id.
func (d *Directory) Lookup(id string) (*tombola.ClientInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, ok := d.byID[id]
	if !ok {
		return nil, ErrUnknownClient
	}
	return info, nil
}

// LookupName resolves a client name.
func (d *Directory) LookupName(name string) (*tombola.ClientInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.byName[name]
	if !ok {
		return nil, ErrUnknownClient
	}
	return d.byID[id], nil
}

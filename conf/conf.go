// Configuration Specification and Management
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

package conf

import (
	"context"

	"go.uber.org/zap"
)

// Internal representation, a flat key = value file
type conf struct {
	Host      string `toml:"host"`
	Port      uint   `toml:"port"`
	Logging   string `toml:"logging"`
	Logpath   string `toml:"logpath"`
	Data      string `toml:"data"`
	Database  string `toml:"database"`
	Websocket bool   `toml:"websocket"`
}

// Public configuration
type Conf struct {
	Log *zap.Logger
	Ctx context.Context

	// HTTP Configuration
	Host string // Address the server binds to
	Port uint16 // Port the server listens on

	// Logging configuration
	LogMode string // One of console, file, both
	LogPath string // Directory for the log file

	// Persistence configuration
	Data     string // Directory for game state dumps
	Database string // File for the audit store, empty disables it
	DB       Recorder

	// Draw feed configuration
	WebSocket bool // Is the websocket draw feed enabled

	// Internal state
	man []Manager // List of system managers
	run bool      // Running flag
}

// Configuration used by default
var defaultConfig = conf{
	Host:      "127.0.0.1",
	Port:      3000,
	Logging:   "console",
	Logpath:   "./logs",
	Data:      "data/games",
	Database:  "",
	Websocket: true,
}

// Configuration Management
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
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	tombola "go-tombola"
)

type Manager interface {
	fmt.Stringer
	Start()
	Shutdown()
}

// Recorder is the audit trail of the server.  The record methods are
// best effort and must never block a game operation; QueryGame reads a
// game back, even one long gone from memory.
type Recorder interface {
	Manager

	RecordClient(context.Context, *tombola.ClientInfo)
	RecordGame(ctx context.Context, id, owner string, created time.Time)
	RecordDraw(ctx context.Context, id string, seq int, n tombola.Number, when time.Time)
	RecordClose(ctx context.Context, id string, score int, ended time.Time)

	QueryGame(ctx context.Context, id string) *tombola.GameRecord
}

func (c *Conf) Register(m Manager) {
	if c.run {
		panic(fmt.Sprintf("Late register: %#v", m))
	}

	if r, ok := m.(Recorder); ok {
		c.DB = r
	}

	c.man = append(c.man, m)
}

func (c *Conf) Start() {
	// Start the service
	for _, m := range c.man {
		c.Log.Info("Starting manager", zap.Stringer("manager", m))
		go m.Start()
	}
	c.run = true

	// Catch an interrupt request...
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	select {
	case <-intr:
		c.Log.Info("Caught interrupt")
	case <-c.Ctx.Done():
		c.Log.Info("Requested shutdown")
	}

	// ...and request all managers to shut down.
	for _, m := range c.man {
		c.Log.Info("Shutting manager down", zap.Stringer("manager", m))
		m.Shutdown()
	}
	c.Log.Sync()
}

// HTTP server management
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
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-tombola/conf"
	"go-tombola/game"
)

// web serves the HTTP surface of the server.  It owns the game
// registry and the client directory.
type web struct {
	conf *conf.Conf
	dir  *game.Directory
	reg  *game.Registry
	hubs *hubSet
	srv  *http.Server
}

func (s *web) Start() {
	s.conf.Log.Info("Listening",
		zap.String("addr", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.conf.Log.Error("Web server failed", zap.Error(err))
	}
}

func (s *web) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.conf.Log.Warn("Forced shutdown", zap.Error(err))
	}
	s.hubs.close()
}

func (*web) String() string { return "Web Server" }

// Prepare sets the web server up and registers it.
func Prepare(c *conf.Conf) error {
	dumper, err := game.NewDumper(c.Data)
	if err != nil {
		return err
	}

	s := &web{
		conf: c,
		dir:  game.NewDirectory(),
		reg:  game.NewRegistry(dumper, c.Log),
		hubs: newHubSet(c.Log),
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", c.Host, c.Port),
		Handler:      s.router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	c.Register(s)
	return nil
}

// Audit store
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

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	tombola "go-tombola"
	"go-tombola/conf"
)

//go:embed *.sql
var sqlDir embed.FS

// store records game activity in a sqlite database.  It observes the
// in-memory core and is never consulted during play: every record is
// queued and written asynchronously so a slow disk cannot stall a
// draw.
type store struct {
	conf *conf.Conf

	// One connection pool for reads, one single-connection pool
	// for writes, the usual sqlite arrangement.
	read  *sql.DB
	write *sql.DB

	// Prepared statements from the embedded .sql files, keyed by
	// basename.  Files starting with "select-" are read queries,
	// files starting with "create-" run once at startup, the rest
	// are write commands.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt

	jobs chan func(context.Context)
	stop chan struct{}
	done chan struct{}
}

func (s *store) enqueue(job func(context.Context)) {
	select {
	case s.jobs <- job:
	default:
		s.conf.Log.Warn("Audit queue full, dropping a record")
	}
}

func (s *store) exec(ctx context.Context, command string, args ...any) {
	if _, err := s.commands[command].ExecContext(ctx, args...); err != nil {
		s.conf.Log.Warn("Audit write failed",
			zap.String("command", command), zap.Error(err))
	}
}

func (s *store) RecordClient(_ context.Context, info *tombola.ClientInfo) {
	id, name, registered := info.ID, info.Name, info.RegisteredAt
	s.enqueue(func(ctx context.Context) {
		s.exec(ctx, "insert-client", id, name, registered)
	})
}

func (s *store) RecordGame(_ context.Context, id, owner string, created time.Time) {
	s.enqueue(func(ctx context.Context) {
		s.exec(ctx, "insert-game", id, owner, created)
	})
}

func (s *store) RecordDraw(_ context.Context, id string, seq int, n tombola.Number, when time.Time) {
	s.enqueue(func(ctx context.Context) {
		s.exec(ctx, "insert-draw", id, seq, n, when)
	})
}

func (s *store) RecordClose(_ context.Context, id string, score int, ended time.Time) {
	s.enqueue(func(ctx context.Context) {
		s.exec(ctx, "update-close", score, ended, id)
	})
}

// QueryGame looks a recorded game up, returning nil when the game was
// never recorded.
func (s *store) QueryGame(ctx context.Context, id string) *tombola.GameRecord {
	rec := tombola.GameRecord{ID: id}
	err := s.queries["select-game"].QueryRowContext(ctx, id).Scan(
		&rec.Owner, &rec.Created, &rec.Score, &rec.Ended)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.conf.Log.Warn("Audit read failed", zap.Error(err))
		}
		return nil
	}
	return &rec
}

func (s *store) Start() {
	for {
		select {
		case job := <-s.jobs:
			job(s.conf.Ctx)
		case <-s.stop:
			for {
				select {
				case job := <-s.jobs:
					job(s.conf.Ctx)
				default:
					close(s.done)
					return
				}
			}
		}
	}
}

func (s *store) Shutdown() {
	close(s.stop)
	<-s.done

	// https://www.sqlite.org/pragma.html#pragma_optimize
	if _, err := s.write.Exec("PRAGMA optimize;"); err != nil {
		s.conf.Log.Warn("Failed to optimize database", zap.Error(err))
	}
	if err := s.write.Close(); err != nil {
		s.conf.Log.Warn("Failed to close database", zap.Error(err))
	}
	if err := s.read.Close(); err != nil {
		s.conf.Log.Warn("Failed to close database", zap.Error(err))
	}
}

func (*store) String() string { return "Audit Store" }

// open connects to FILE and loads the embedded statements.
func open(c *conf.Conf, file string) (*store, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	s := &store{
		conf:     c,
		read:     read,
		write:    write,
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		jobs:     make(chan func(context.Context), 256),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_foreign_keys
		"foreign_keys = on",
	} {
		if _, err := s.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			return nil, fmt.Errorf("PRAGMA %s: %w", pragma, err)
		}
	}

	entries, err := sqlDir.ReadDir(".")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		base := path.Base(entry.Name())
		data, err := fs.ReadFile(sqlDir, entry.Name())
		if err != nil {
			return nil, err
		}

		name := strings.TrimSuffix(base, ".sql")
		switch {
		case strings.HasPrefix(base, "create-"):
			_, err = s.write.Exec(string(data))
		case strings.HasPrefix(base, "select-"):
			s.queries[name], err = s.read.Prepare(string(data))
		default:
			s.commands[name], err = s.write.Prepare(string(data))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}

	return s, nil
}

// Prepare connects the audit store named in the configuration and
// registers it.  An empty database name disables auditing.
func Prepare(c *conf.Conf) error {
	if c.Database == "" {
		return nil
	}

	s, err := open(c, c.Database)
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	c.Register(s)
	return nil
}

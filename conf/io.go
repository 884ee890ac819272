// Configuration loading and dumping
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
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Parse a configuration from R
func load(r io.Reader) (*Conf, error) {
	// Missing keys keep their default value
	data := defaultConfig
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	return build(&data)
}

// Turn the file representation into a usable configuration
func build(data *conf) (*Conf, error) {
	if data.Port == 0 || data.Port > 0xFFFF {
		return nil, fmt.Errorf("invalid port %d", data.Port)
	}

	log, err := buildLogger(data.Logging, data.Logpath)
	if err != nil {
		return nil, err
	}

	return &Conf{
		Log:       log,
		Ctx:       context.Background(),
		Host:      data.Host,
		Port:      uint16(data.Port),
		LogMode:   data.Logging,
		LogPath:   data.Logpath,
		Data:      data.Data,
		Database:  data.Database,
		WebSocket: data.Websocket,
	}, nil
}

// Open a configuration file and return it
func Open(name string) (*Conf, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return load(file)
}

// Return the default configuration
func Default() (*Conf, error) {
	data := defaultConfig
	return build(&data)
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	data := conf{
		Host:      c.Host,
		Port:      uint(c.Port),
		Logging:   c.LogMode,
		Logpath:   c.LogPath,
		Data:      c.Data,
		Database:  c.Database,
		Websocket: c.WebSocket,
	}
	return toml.NewEncoder(wr).Encode(data)
}

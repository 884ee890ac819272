// Entry point
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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go-tombola/conf"
	"go-tombola/db"
	"go-tombola/web"
)

// Default file name for the configuration file
const defconf = "server.toml"

func main() {
	var (
		confFile = flag.String("conf", defconf, "Name of configuration file")
		dumpConf = flag.Bool("dump-config", false, "Dump default configuration")
	)

	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load the configuration from disk (if available)
	config, err := conf.Open(*confFile)
	if os.IsNotExist(err) && *confFile == defconf {
		config, err = conf.Default()
	}
	if err != nil {
		log.Fatal(err)
	}

	// Dump the configuration onto the disk if requested
	if *dumpConf {
		if err := config.Dump(os.Stdout); err != nil {
			log.Fatalln("Failed to dump configuration:", err)
		}
		os.Exit(0)
	}

	// Enable the audit store
	if err := db.Prepare(config); err != nil {
		log.Fatal(err)
	}

	// Enable the HTTP surface
	if err := web.Prepare(config); err != nil {
		log.Fatal(err)
	}

	// Launch the server
	config.Start()
}

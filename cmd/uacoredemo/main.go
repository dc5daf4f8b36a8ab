/*
 * uacore
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Command uacoredemo boots an in-memory address-space server: it
bootstraps namespace 0, optionally starts the monitor websocket feed
and a scripting session for lifecycle hooks, and serves until
interrupted.
*/
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/krotik/common/httputil"

	"github.com/krotik/uacore/addrspace"
	"github.com/krotik/uacore/addrspace/bootstrap"
	"github.com/krotik/uacore/addrspace/lifecycle"
	"github.com/krotik/uacore/addrspace/service"
	"github.com/krotik/uacore/config"
	"github.com/krotik/uacore/ids"
	"github.com/krotik/uacore/monitor"
	"github.com/krotik/uacore/scripting"
)

/*
Using a package-level indirection for log.Fatal/log.Print so a test
harness could intercept them, the way server/server.go's consolelogger
does for the teacher's own main entry point.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "Configuration file")
	flag.Parse()

	if _, err := os.Stat(*configFile); err == nil {
		if err := config.LoadConfigFile(*configFile); err != nil {
			fatal("Could not load configuration:", err)
			return
		}
	} else {
		config.LoadDefaultConfig()
	}

	logger := log.New(os.Stderr, "uacore: ", log.LstdFlags)

	store := addrspace.NewStore()

	print("Populating namespace 0")

	if err := bootstrap.Populate(store); err != nil {
		fatal("Could not bootstrap namespace 0:", err)
		return
	}

	registry := lifecycle.NewRegistry[scripting.Handle]()

	var hub *monitor.Hub
	if config.Bool(config.EnableMonitor) {
		hub = monitor.NewHub()
	}

	var sink service.EventSink
	if hub != nil {
		sink = hub
	}

	srv := service.NewServer(store, registry, logger, sink)

	if config.Bool(config.EnableScripting) {
		print("Starting scripting session in: ", config.Str(config.LifecycleScriptDir))

		session := scripting.NewSession(config.Str(config.LifecycleScriptDir))

		go func() {
			if err := session.Start(); err != nil {
				print("Scripting session exited:", err)
			}
		}()

		// The demo's own FolderType instances get scripted lifecycle
		// hooks; an embedder registers whichever of its own types it
		// wants scripted the same way.
		registry.Register(ids.FolderTypeId, session.Hooks("Folder"))
	}

	if hub != nil {
		http.HandleFunc("/monitor", hub.Handler)
	}

	_ = srv // kept alive for the lifetime of the process; client wiring is an embedder's job

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	print("Starting server on: ", config.Str(config.ListenAddress))

	go hs.RunHTTPServer(config.Str(config.ListenAddress), &wg)

	wg.Wait()

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	print("Server ready")

	wg.Add(1)
	wg.Wait()
}

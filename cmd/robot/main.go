// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/controlbot/internal/app"
	"github.com/relabs-tech/controlbot/internal/config"
)

// The firmware takes no arguments: tunables are compiled in, with an
// optional robot.cfg next to the binary for pin/mode overrides.
func main() {
	if err := config.InitGlobal("./robot.cfg"); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Fail-stop: any bring-up error halts before the motors move.
	if err := app.RunRobot(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

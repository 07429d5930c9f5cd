package main

import (
	"log"
	"os"

	"github.com/relabs-tech/controlbot/internal/app"
	"github.com/relabs-tech/controlbot/internal/config"
)

func main() {
	if err := config.InitGlobal("./robot.cfg"); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	path := config.Get().TelemetryPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := app.RunLogView(":8080", path); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

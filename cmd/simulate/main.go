package main

import (
	"log"

	"github.com/relabs-tech/controlbot/internal/app"
	"github.com/relabs-tech/controlbot/internal/config"
)

func main() {
	log.Println("starting controlbot simulator")

	if err := config.InitGlobal("./robot.cfg"); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := app.RunSimulate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

package main

import (
	"log"
	"os"

	"physevents/internal/app"
	"physevents/internal/config"
)

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}
	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: could not init app: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

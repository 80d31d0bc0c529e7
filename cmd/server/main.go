package main

import (
	"taskmanager/internal/config"
	"taskmanager/internal/logging"
	"taskmanager/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("❌ Invalid configuration: %v", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		logging.Logger.Fatalf("❌ Invalid logging configuration: %v", err)
	}

	s, err := server.Init(cfg)
	if err != nil {
		logging.Logger.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}

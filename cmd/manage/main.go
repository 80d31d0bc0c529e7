package main

import (
	"context"
	"fmt"
	"os"

	"taskmanager/internal/cli"
	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/logging"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("❌ Invalid configuration: %v", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		logging.Logger.Fatalf("❌ Invalid logging configuration: %v", err)
	}

	open := func() (*gorm.DB, error) {
		return database.Open(cfg.DatabaseURL, cfg.Debug)
	}
	if err := cli.NewRootCmd(open).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

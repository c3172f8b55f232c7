package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"fleetops/adapters/postgres"
	"fleetops/internal"
	"fleetops/internal/config"
	"fleetops/internal/migration"

	"github.com/joho/godotenv"
)

func main() {
	runner := migration.NewRunner()

	// --print writes the DDL instead of applying it
	if len(os.Args) > 1 && os.Args[1] == "--print" {
		for _, stmt := range runner.Statements() {
			fmt.Println(strings.TrimSpace(stmt) + ";")
		}
		return
	}

	_ = godotenv.Load()

	appConfig, err := config.Load(true)
	if err != nil {
		internal.DefaultLogger.Error("[migrate] Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, appConfig.Database)
	if err != nil {
		logger.Error("[migrate] %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := runner.Run(ctx, db); err != nil {
		logger.Error("[migrate] %v", err)
		os.Exit(1)
	}
	logger.Info("[migrate] Schema at version %s", runner.Version())
}

package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/atx/internal/repositories"
	"github.com/desertthunder/atx/internal/services"
	"github.com/desertthunder/atx/internal/shared"
	"github.com/desertthunder/atx/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	tracker := services.NewTrackerClient(config.API.BaseURL, config.API.Token)
	apiService := services.NewAPIService(config.API.BaseURL, nil)

	// The local cache is optional; commands that need it check for themselves.
	var recorder tasks.CommitRecorder
	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Tracker:    tracker,
		API:        apiService,
		Logger:     logger,
	}
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			recorder = repositories.NewCommitLogRepository(db)
			opts.DB = db
			opts.Recorder = recorder
			defer db.Close()
		} else {
			logger.Warn("failed to open cache database", "error", err)
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "atx",
		Usage:    "Register and review class-session attendance from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	api := services.NewBookMindService(services.BookMindOpts{
		BaseURL:        config.API.BaseURL,
		Timeout:        time.Duration(config.API.TimeoutSeconds) * time.Second,
		RequestsPerSec: config.API.RequestsPerSec,
	})

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    api,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "bookmind",
		Usage:    "Rate books, follow readers, build your wishlist",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not signed in, run 'bookmind auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

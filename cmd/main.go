package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/tdx/internal/repositories"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	if p := os.Getenv("TDX_CONFIG"); p != "" {
		if _, err := os.Stat(p); err != nil {
			logger.Fatal("TDX_CONFIG does not point at a readable file", "error", fmt.Errorf("%w: %w", shared.ErrMissingConfig, err))
		}
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var jar *session.Jar
	if db, err := shared.OpenStore(config.Database); err == nil {
		defer db.Close()
		jar = session.NewJar(repositories.NewCookieRepository(db), logger)
	} else {
		logger.Warn("cookie store unavailable, the session will not persist", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Jar:        jar,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "tdx",
		Usage:    "Sign in with GitHub and manage your todo list",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Warn("not signed in", "error", err)
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

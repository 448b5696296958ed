package main

import (
	"context"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.Load("config.toml")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := shared.SetLogLevel(logger, config.Log.Level); err != nil {
		logger.Fatalf("%v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "reddit-proxy",
		Usage:    "Server-rendered Reddit front-end",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

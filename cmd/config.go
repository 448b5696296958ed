package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

const redacted = "********"

// ConfigInit writes the embedded example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

// ConfigShow prints the effective configuration (file, then environment) with the client secret redacted.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	config := *r.config
	if config.Credentials.ClientSecret != "" {
		config.Credentials.ClientSecret = redacted
	}

	if cmd.Bool("json") {
		return r.writeJSON(config, true)
	}

	if err := toml.NewEncoder(r.output).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

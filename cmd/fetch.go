package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/formatter"
	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
)

// Fetch retrieves one listing page and prints it in the requested format.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	client, err := r.redditClient(nil)
	if err != nil {
		return err
	}

	path := cmd.StringArg("path")
	listing, err := client.FetchListing(ctx, path, cmd.String("query"), cmd.String("token"))
	if err != nil {
		var de *reddit.DecodeError
		if errors.As(err, &de) {
			r.logger.Error("listing failed", "path", path, "json_path", de.Path)
		}
		return err
	}

	data, err := formatter.Export(formatter.NewListingExport(path, listing), cmd.String("format"))
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteExport(data, out); err != nil {
			return err
		}
		r.logger.Info("listing exported", "path", out, "bytes", len(data))
		return nil
	}
	return r.writeBytes(data)
}

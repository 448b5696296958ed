package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
	"github.com/RedPhoenixQ/reddit-proxy/internal/server"
	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// AuthURL prints the authorize URL, optionally opening it in the system browser.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if r.config.Credentials.ClientID == "" {
		return fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	auth := server.NewAuthHandler(reddit.OAuthConfig(r.config), nil, r.logger)
	authURL := auth.BuildAuthorizeURL(server.SafeRedirectPath(cmd.String("state")))

	if err := r.writePlain("%s\n", authURL); err != nil {
		return err
	}

	if cmd.Bool("open") {
		r.logger.Info("opening browser", "redirect_uri", r.config.Credentials.RedirectURI)
		if err := shared.OpenBrowser(ctx, authURL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
	"github.com/RedPhoenixQ/reddit-proxy/internal/server"
	"github.com/RedPhoenixQ/reddit-proxy/internal/web"
)

// Serve validates the configuration and runs the HTTP front-end until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	handler, err := r.newHandler()
	if err != nil {
		return err
	}

	addr := r.config.Server.Addr()
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx, server.NewHTTPServer(addr, handler), r.logger)
}

// newHandler wires metrics, the upstream client and every route into one router.
func (r *Runner) newHandler() (http.Handler, error) {
	metrics, err := server.NewMetrics()
	if err != nil {
		return nil, err
	}

	client, err := r.redditClient(metrics.Registry())
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream client: %w", err)
	}

	auth := server.NewAuthHandler(reddit.OAuthConfig(r.config), client.HTTPClient(), r.logger)
	feed := web.NewFeedHandler(client, auth, r.logger)

	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger), metrics.Middleware())

	handleGet(router, metrics)
	handleGet(router, auth)
	if dir := r.config.Server.AssetsDir; dir != "" {
		router.Handle(http.MethodGet, "/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(dir))))
	}
	router.Handle(http.MethodGet, "/favicon.ico", http.NotFoundHandler())
	handleGet(router, feed)

	r.logger.Debug("routes registered", "assets", r.config.Server.AssetsDir != "")
	return router, nil
}

// handleGet registers every route of h as GET (and HEAD) only.
func handleGet(router server.Router, h server.Handler) {
	for _, route := range h.Routes() {
		router.Handle(http.MethodGet, route, h)
	}
}

package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
	"github.com/RedPhoenixQ/reddit-proxy/internal/server"
	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// ListingFetcher retrieves a listing from upstream. Implemented by [reddit.Client].
type ListingFetcher interface {
	FetchListing(ctx context.Context, path, rawQuery, accessToken string) (*reddit.Listing, error)
}

// FeedHandler proxies any path to the matching upstream listing and renders it.
// Implements the server.Handler interface for registration with a Router.
type FeedHandler struct {
	client ListingFetcher
	auth   Authorizer
	logger *log.Logger
}

// NewFeedHandler creates a [FeedHandler].
func NewFeedHandler(client ListingFetcher, auth Authorizer, logger *log.Logger) *FeedHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &FeedHandler{
		client: client,
		auth:   auth,
		logger: shared.WithLogger(logger, "component", "feed"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *FeedHandler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP fetches the listing for the request path and renders it.
// Upstream and decoding failures become a plain-text 502.
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	token, authenticated := server.ReadAccessToken(r)

	listing, err := h.client.FetchListing(r.Context(), path, r.URL.RawQuery, token)
	if err != nil {
		h.fail(w, r, path, err)
		return
	}

	page := NewFeedPage(listing, path, r.URL.RawQuery, authenticated, h.auth)
	h.logger.Debug("rendering listing", "path", page.Path, "things", len(page.Things), "fragment", IsFragmentRequest(r))
	RenderPage(w, r, Posts(page), Page(page))
}

func (h *FeedHandler) fail(w http.ResponseWriter, r *http.Request, path string, err error) {
	kv := []any{"path", path, "error", err, "request_id", server.RequestID(r.Context())}

	var de *reddit.DecodeError
	var msg string
	switch {
	case errors.As(err, &de):
		kv = append(kv, "json_path", de.Path)
		msg = "Error parsing reddit response"
	case errors.Is(err, shared.ErrUnexpectedShape):
		msg = "Did not get a listing from reddit"
	default:
		msg = "Reddit is unavailable"
	}

	h.logger.Error("listing failed", kv...)
	http.Error(w, msg, http.StatusBadGateway)
}

package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

const (
	defaultAPIBaseURL    = "https://oauth.reddit.com"
	defaultPublicBaseURL = "https://www.reddit.com"

	// maxBodySize caps how much of an upstream response is read.
	maxBodySize = 16 << 20
)

// Client fetches listings from the Reddit API.
type Client struct {
	apiBaseURL    string
	publicBaseURL string
	httpClient    *http.Client
}

// NewClient creates a [Client] for the configured upstream hosts.
//
// httpClient should come from [NewHTTPClient] so requests carry the user agent.
func NewClient(cfg shared.UpstreamConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}
	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = defaultPublicBaseURL
	}

	return &Client{
		apiBaseURL:    strings.TrimRight(apiBase, "/"),
		publicBaseURL: strings.TrimRight(publicBase, "/"),
		httpClient:    httpClient,
	}
}

// HTTPClient returns the outbound client, shared with the token exchange.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// ListingURL builds the upstream URL for path and rawQuery.
//
// Authenticated requests go to the API host, anonymous ones to the public host.
// An empty path is the front page.
func (c *Client) ListingURL(path, rawQuery string, authenticated bool) string {
	base := c.publicBaseURL
	if authenticated {
		base = c.apiBaseURL
	}

	// path is already decoded, so "?" or "#" in it must not end the path
	escaped := (&url.URL{Path: "/" + strings.Trim(path, "/") + ".json"}).EscapedPath()
	return fmt.Sprintf("%s%s?raw_json=1&%s", base, escaped, rawQuery)
}

// FetchListing retrieves and decodes the listing at path.
//
// rawQuery is forwarded verbatim. accessToken may be empty for anonymous access.
// Failures wrap [shared.ErrUpstreamUnavailable] or [shared.ErrUnexpectedShape],
// or are a [*DecodeError].
func (c *Client) FetchListing(ctx context.Context, path, rawQuery, accessToken string) (*Listing, error) {
	target := c.ListingURL(path, rawQuery, accessToken != "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrUpstreamUnavailable, err)
	}

	thing, err := DecodeThing(body)
	if err != nil {
		return nil, err
	}
	if thing.Listing == nil {
		return nil, fmt.Errorf("%w: got kind %q", shared.ErrUnexpectedShape, thing.Kind)
	}

	return thing.Listing, nil
}

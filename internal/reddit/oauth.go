package reddit

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

const (
	authorizePath   = "/api/v1/authorize"
	accessTokenPath = "/api/v1/access_token"
)

// DefaultScopes are requested when the config lists none.
var DefaultScopes = []string{"identity", "history", "mysubreddits", "read", "save", "subscribe", "vote"}

// OAuthConfig builds the authorization code flow config for the Reddit app in cfg.
//
// Client credentials are sent as HTTP Basic auth on the token endpoint.
func OAuthConfig(cfg *shared.Config) *oauth2.Config {
	base := strings.TrimRight(cfg.Upstream.AuthBaseURL, "/")
	if base == "" {
		base = defaultPublicBaseURL
	}

	scopes := cfg.Upstream.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	return &oauth2.Config{
		ClientID:     cfg.Credentials.ClientID,
		ClientSecret: cfg.Credentials.ClientSecret,
		RedirectURL:  cfg.Credentials.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + authorizePath,
			TokenURL:  base + accessTokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

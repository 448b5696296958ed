package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
	"github.com/RedPhoenixQ/reddit-proxy/internal/server"
	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
	tu "github.com/RedPhoenixQ/reddit-proxy/internal/testing"
)

type fakeFetcher struct {
	listing *reddit.Listing
	err     error

	path, query, token string
}

func (f *fakeFetcher) FetchListing(ctx context.Context, path, rawQuery, accessToken string) (*reddit.Listing, error) {
	f.path, f.query, f.token = path, rawQuery, accessToken
	return f.listing, f.err
}

type fakeAuthorizer struct{}

func (fakeAuthorizer) BuildAuthorizeURL(returnPath string) string {
	return "https://auth.example/authorize?state=" + url.QueryEscape(returnPath)
}

func fixtureListing(t *testing.T) *reddit.Listing {
	t.Helper()
	thing, err := reddit.DecodeThing(tu.Fixture(t, "listing.json"))
	require.NoError(t, err)
	return thing.Listing
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFeedHandler(t *testing.T) {
	t.Run("Anonymous Full Page", func(t *testing.T) {
		fetcher := &fakeFetcher{listing: fixtureListing(t)}
		h := NewFeedHandler(fetcher, fakeAuthorizer{}, shared.NewLogger(&bytes.Buffer{}))

		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/r/gifs?t=week", nil))
		body := rec.Body.String()

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
		assert.Contains(t, body, `hx-boost="true"`)
		assert.Contains(t, body, `href="https://auth.example/authorize?state=%2Fr%2Fgifs"`)
		assert.Contains(t, body, ">Login</a>")
		assert.NotContains(t, body, "Logout")

		assert.Equal(t, "r/gifs", fetcher.path)
		assert.Equal(t, "t=week", fetcher.query)
		assert.Empty(t, fetcher.token)
	})

	t.Run("Authenticated Forwards Token", func(t *testing.T) {
		fetcher := &fakeFetcher{listing: fixtureListing(t)}
		h := NewFeedHandler(fetcher, fakeAuthorizer{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: server.AccessTokenCookie, Value: "tok"})
		rec := serve(t, h, req)

		assert.Equal(t, "tok", fetcher.token)
		assert.Empty(t, fetcher.path)
		assert.Contains(t, rec.Body.String(), `href="/logout"`)
		assert.NotContains(t, rec.Body.String(), ">Login</a>")
	})

	t.Run("HTMX Fragment", func(t *testing.T) {
		h := NewFeedHandler(&fakeFetcher{listing: fixtureListing(t)}, fakeAuthorizer{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/gifs", nil)
		req.Header.Set(HXRequestHeader, "true")
		body := serve(t, h, req).Body.String()

		assert.True(t, strings.HasPrefix(body, `<div id="posts"`), "got %q", body[:min(len(body), 40)])
		assert.NotContains(t, body, "<!DOCTYPE html>")
		assert.NotContains(t, body, "<header")
	})

	t.Run("Boosted Navigation Gets Full Page", func(t *testing.T) {
		h := NewFeedHandler(&fakeFetcher{listing: fixtureListing(t)}, fakeAuthorizer{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/gifs", nil)
		req.Header.Set(HXRequestHeader, "true")
		req.Header.Set(HXBoostedHeader, "true")
		body := serve(t, h, req).Body.String()

		assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	})

	t.Run("Next Page Link Keeps Query", func(t *testing.T) {
		h := NewFeedHandler(&fakeFetcher{listing: fixtureListing(t)}, fakeAuthorizer{}, nil)

		body := serve(t, h, httptest.NewRequest(http.MethodGet, "/r/gifs?t=week&before=t3_old", nil)).Body.String()
		assert.Contains(t, body, `href="/r/gifs?after=t3_next&amp;t=week"`)
	})

	errorCases := []struct {
		name    string
		err     error
		message string
	}{
		{"Upstream Unavailable", fmt.Errorf("%w: status 503", shared.ErrUpstreamUnavailable), "Reddit is unavailable"},
		{"Unexpected Shape", fmt.Errorf("%w: got kind %q", shared.ErrUnexpectedShape, "t3"), "Did not get a listing from reddit"},
		{"Decode Error", &reddit.DecodeError{Path: "data.children[0].data.title", Err: shared.ErrDecodeSchema}, "Error parsing reddit response"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			h := NewFeedHandler(&fakeFetcher{err: tt.err}, fakeAuthorizer{}, shared.NewLogger(&logs))

			rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/r/gifs", nil))

			assert.Equal(t, http.StatusBadGateway, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
			assert.Equal(t, tt.message, strings.TrimSpace(rec.Body.String()))
			assert.Contains(t, logs.String(), "listing failed")
		})
	}

	t.Run("Decode Error Logs JSON Path", func(t *testing.T) {
		var logs bytes.Buffer
		err := &reddit.DecodeError{Path: "data.children[0].data.title", Err: shared.ErrDecodeSchema}
		h := NewFeedHandler(&fakeFetcher{err: err}, fakeAuthorizer{}, shared.NewLogger(&logs))

		serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, logs.String(), "data.children[0].data.title")
	})
}

func TestNewFeedPage(t *testing.T) {
	listing := fixtureListing(t)

	t.Run("Anonymous", func(t *testing.T) {
		page := NewFeedPage(listing, "r/rust/", "", false, fakeAuthorizer{})

		assert.Equal(t, "/r/rust", page.Path)
		assert.Equal(t, "r/rust - Reddit", page.Title)
		assert.Equal(t, "https://auth.example/authorize?state=%2Fr%2Frust", page.LoginURL)
		assert.Empty(t, page.LogoutURL)
		assert.Equal(t, "/r/rust?after=t3_next", page.NextURL)
		assert.Len(t, page.Things, 7)
		assert.Len(t, page.Posts(), 6)
	})

	t.Run("Authenticated Front Page", func(t *testing.T) {
		page := NewFeedPage(&reddit.Listing{}, "", "", true, fakeAuthorizer{})

		assert.Equal(t, "/", page.Path)
		assert.Equal(t, "Reddit", page.Title)
		assert.Empty(t, page.LoginURL)
		assert.Equal(t, "/logout", page.LogoutURL)
		assert.Empty(t, page.NextURL)
	})
}

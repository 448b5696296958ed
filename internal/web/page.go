package web

import (
	"net/url"
	"strings"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
)

// Authorizer builds the upstream consent URL for a return path.
type Authorizer interface {
	BuildAuthorizeURL(returnPath string) string
}

// FeedPage is the view model for a rendered listing.
type FeedPage struct {
	Title         string
	Path          string // request path with a leading slash
	Authenticated bool
	LoginURL      string // set only when anonymous
	LogoutURL     string // set only when authenticated
	Things        []reddit.Thing
	NextURL       string // empty on the last page
}

// NewFeedPage builds the view model for listing, fetched for path and rawQuery.
func NewFeedPage(listing *reddit.Listing, path, rawQuery string, authenticated bool, auth Authorizer) FeedPage {
	path = "/" + strings.Trim(path, "/")

	page := FeedPage{
		Title:         pageTitle(path),
		Path:          path,
		Authenticated: authenticated,
		Things:        listing.Children,
		NextURL:       nextURL(path, rawQuery, listing.After),
	}
	if authenticated {
		page.LogoutURL = "/logout"
	} else if auth != nil {
		page.LoginURL = auth.BuildAuthorizeURL(path)
	}
	return page
}

// Posts returns the posts on the page in upstream order.
func (p FeedPage) Posts() []*reddit.Post {
	posts := make([]*reddit.Post, 0, len(p.Things))
	for _, t := range p.Things {
		if t.Post != nil {
			posts = append(posts, t.Post)
		}
	}
	return posts
}

func pageTitle(path string) string {
	if path == "/" {
		return "Reddit"
	}
	return strings.TrimPrefix(path, "/") + " - Reddit"
}

// nextURL keeps the current query and moves the cursor to after.
func nextURL(path, rawQuery, after string) string {
	if after == "" {
		return ""
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	q.Del("before")
	q.Set("after", after)
	return path + "?" + q.Encode()
}

package server

import (
	"net/url"
	"strings"
)

// SafeRedirectPath returns raw when it is a same-origin path, otherwise "/".
//
// Only paths with a single leading slash and no scheme, host or backslash are honored.
func SafeRedirectPath(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n\t") {
		return "/"
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil {
		return "/"
	}
	if parsed.Path == "" {
		return "/"
	}
	if parsed.RawQuery != "" {
		return parsed.EscapedPath() + "?" + parsed.RawQuery
	}
	return parsed.EscapedPath()
}

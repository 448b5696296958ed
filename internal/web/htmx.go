package web

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// HXRequestHeader is set by htmx on every request it initiates.
	HXRequestHeader = "HX-Request"
	// HXBoostedHeader is set on top of HX-Request for hx-boost navigations, which expect a full page.
	HXBoostedHeader = "HX-Boosted"
)

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(HXRequestHeader), "true")
}

// IsFragmentRequest reports whether the response should be a fragment rather than a full document.
func IsFragmentRequest(r *http.Request) bool {
	return IsHTMXRequest(r) && !strings.EqualFold(r.Header.Get(HXBoostedHeader), "true")
}

// RenderPage renders fragment for htmx fragment requests and full otherwise.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment, full templ.Component) {
	w.Header().Add("Vary", HXRequestHeader)
	target := full
	if IsFragmentRequest(r) {
		target = fragment
	}
	templ.Handler(target).ServeHTTP(w, r)
}

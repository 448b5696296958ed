// Package web renders Reddit listings as server-side HTML.
//
// [FeedHandler] is the catch-all route: it forwards the request path and query to
// the upstream listing endpoint, builds a [FeedPage] and renders it with the
// components in this package.
//
// Normal requests get a full document. htmx requests (HX-Request: true) that are
// not boosted navigations get only the #posts fragment, so the next page link can
// swap posts in place.
//
// Components are plain [templ.ComponentFunc] values. Every piece of upstream text
// is escaped and every upstream URL is sanitized before it reaches the page.
package web

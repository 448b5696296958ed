// Package server provides HTTP routing, middleware, and the OAuth session handlers for the proxy.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// Middleware is applied when a handler is registered, so call [BasicRouter.Use] first.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Session Handlers
//
// [AuthHandler] implements the Reddit authorization code flow:
//   - [AuthHandler.BuildAuthorizeURL] builds the consent URL, carrying the return path as state
//   - /oauth exchanges the code for tokens, stores them in HttpOnly cookies and redirects to the state path
//   - /logout clears both token cookies
//
// The state path is passed through [SafeRedirectPath], so only same-origin paths are followed.
//
// # Observability
//
// [RequestLogger] tags every request with an ID (echoed as X-Request-ID) and logs it on completion.
// [Metrics] owns the Prometheus registry, instruments inbound requests and serves /metrics.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server

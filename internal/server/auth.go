package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// CallbackQuery holds the query parameters of an authorization callback.
type CallbackQuery struct {
	Error string
	Code  string
	State string
}

// ParseCallbackQuery extracts a [CallbackQuery] from request query values.
func ParseCallbackQuery(values url.Values) CallbackQuery {
	return CallbackQuery{
		Error: values.Get("error"),
		Code:  values.Get("code"),
		State: values.Get("state"),
	}
}

// CallbackResult is a completed token exchange.
type CallbackResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int    // seconds until the access token expires
	Redirect     string // sanitized same-origin path
}

// Cookies returns the cookies that establish the session.
//
// The refresh token cookie is omitted when upstream issued none.
func (r *CallbackResult) Cookies() []*http.Cookie {
	cookies := []*http.Cookie{tokenCookie(AccessTokenCookie, r.AccessToken, r.ExpiresIn)}
	if r.RefreshToken != "" {
		cookies = append(cookies, tokenCookie(RefreshTokenCookie, r.RefreshToken, 0))
	}
	return cookies
}

// AuthHandler runs the authorization code flow against Reddit and keeps the
// resulting tokens in cookies.
// Implements the Handler interface for registration with a Router.
type AuthHandler struct {
	config     *oauth2.Config
	httpClient *http.Client
	logger     *log.Logger
}

// NewAuthHandler creates an [AuthHandler]. httpClient is used for the token
// exchange and should carry the configured user agent.
func NewAuthHandler(config *oauth2.Config, httpClient *http.Client, logger *log.Logger) *AuthHandler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &AuthHandler{
		config:     config,
		httpClient: httpClient,
		logger:     shared.WithLogger(logger, "component", "auth"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/oauth", "/logout"}
}

// ServeHTTP dispatches to the callback or logout handler.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/oauth":
		h.handleCallback(w, r)
	case "/logout":
		h.Logout(w, r)
	default:
		http.NotFound(w, r)
	}
}

// BuildAuthorizeURL returns the upstream consent URL. returnPath is carried
// as the state parameter and defaults to "/".
func (h *AuthHandler) BuildAuthorizeURL(returnPath string) string {
	if returnPath == "" {
		returnPath = "/"
	}
	return h.config.AuthCodeURL(returnPath, oauth2.SetAuthURLParam("duration", "permanent"))
}

// Callback completes the flow for q.
//
// Errors wrap [shared.ErrUpstreamDenied], [shared.ErrMissingCode] or [shared.ErrExchangeFailed].
func (h *AuthHandler) Callback(ctx context.Context, q CallbackQuery) (*CallbackResult, error) {
	if q.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrUpstreamDenied, q.Error)
	}
	if q.Code == "" {
		return nil, shared.ErrMissingCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, h.httpClient)
	tok, err := h.config.Exchange(ctx, q.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrExchangeFailed, err)
	}

	result := &CallbackResult{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn(tok),
		Redirect:     SafeRedirectPath(q.State),
	}
	if result.ExpiresIn <= 0 {
		h.logger.Warn("token response has no usable expires_in, access token cookie is session scoped", "expires_in", result.ExpiresIn)
	}
	return result, nil
}

// Logout clears the session cookies and redirects home. The tokens are not revoked upstream.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookies(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := ParseCallbackQuery(r.URL.Query())

	result, err := h.Callback(r.Context(), q)
	if err != nil {
		status := CallbackStatus(err)
		switch {
		case errors.Is(err, shared.ErrUpstreamDenied):
			h.logger.Warn("authorization denied", "error", q.Error, "request_id", RequestID(r.Context()))
			http.Error(w, q.Error, status)
		case errors.Is(err, shared.ErrMissingCode):
			h.logger.Warn("callback without code", "request_id", RequestID(r.Context()))
			http.Error(w, "Missing code", status)
		default:
			h.logger.Error("token exchange failed", "error", err, "request_id", RequestID(r.Context()))
			http.Error(w, "Token exchange failed", status)
		}
		return
	}

	for _, c := range result.Cookies() {
		http.SetCookie(w, c)
	}
	h.logger.Info("session established", "expires_in", result.ExpiresIn, "redirect", result.Redirect)
	http.Redirect(w, r, result.Redirect, http.StatusFound)
}

// CallbackStatus maps a [AuthHandler.Callback] error to its HTTP status.
func CallbackStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusFound
	case errors.Is(err, shared.ErrUpstreamDenied), errors.Is(err, shared.ErrMissingCode):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// expiresIn reads the lifetime upstream reported, falling back to the token expiry.
func expiresIn(tok *oauth2.Token) int {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	if tok.Expiry.IsZero() {
		return 0
	}
	return int(math.Round(time.Until(tok.Expiry).Seconds()))
}

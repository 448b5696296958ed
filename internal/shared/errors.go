package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Decoding errors
	ErrDecodeSyntax        = fmt.Errorf("malformed JSON")
	ErrDecodeSchema        = fmt.Errorf("unexpected JSON schema")
	ErrGalleryMediaMissing = fmt.Errorf("gallery media missing from media_metadata")

	// Authentication errors
	ErrUpstreamDenied = fmt.Errorf("authorization denied upstream")
	ErrExchangeFailed = fmt.Errorf("token exchange failed")
	ErrMissingCode    = fmt.Errorf("missing authorization code")

	// Content errors
	ErrUnexpectedShape     = fmt.Errorf("upstream did not return a listing")
	ErrUpstreamUnavailable = fmt.Errorf("upstream unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

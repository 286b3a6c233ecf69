package zoombot

import "errors"

// Failures a Zoom API call can be mapped to. Callers branch with errors.Is.
var (
	ErrAuth        = errors.New("zoombot: authentication failed")
	ErrRateLimited = errors.New("zoombot: rate limited")
	ErrNetwork     = errors.New("zoombot: network error")
	ErrConflict    = errors.New("zoombot: scheduling conflict")
	ErrNotFound    = errors.New("zoombot: not found")
)

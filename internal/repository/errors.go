// Package repository defines error types shared by the in-memory stores.
// These sentinel values allow higher layers such as the box office and
// the HTTP handlers to distinguish between failure scenarios.
package repository

import "errors"

// ErrEventNotFound is returned when no ticket was ever sold for a show
// key, so no event record exists.  Handlers should translate this into
// an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

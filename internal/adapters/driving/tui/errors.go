package tui

import "errors"

// ErrMissingService is returned when the ports can serve no document.
var ErrMissingService = errors.New("tui: a document or store service is required")

// ErrMissingStoreService is returned when a stored document is browsed
// without a store service.
var ErrMissingStoreService = errors.New("tui: store service is required for stored documents")

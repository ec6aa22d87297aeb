// Package tui provides an interactive terminal chunk browser for piidoc.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser reads chunks from.
type Ports struct {
	// Document opens document files.
	Document driving.DocumentService

	// Store reads stored documents.
	Store driving.StoreService
}

// Validate ensures at least one port is set.
func (p *Ports) Validate() error {
	if p == nil || (p.Document == nil && p.Store == nil) {
		return ErrMissingService
	}
	return nil
}

// Source names the document to browse: a file path, or the id of a stored
// document when Stored is set.
type Source struct {
	Path   string
	Stored bool
}

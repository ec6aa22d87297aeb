package mcp

import (
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document opens source documents from files.
	Document driving.DocumentService

	// Store exposes stored documents and chunk search. Optional: without
	// it the search tool and store resources are not registered.
	Store driving.StoreService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

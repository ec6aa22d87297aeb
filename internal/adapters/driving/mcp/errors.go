// Package mcp provides an MCP (Model Context Protocol) server adapter for piidoc.
// It lets AI assistants read source documents as chunk streams and query the
// chunk store.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")

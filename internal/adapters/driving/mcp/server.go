package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/piidoc/internal/logger"
)

// Version is reported to MCP clients during initialisation.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

const instructions = `Read source documents prepared for PII annotation.
document_metadata and document_chunks take a file path. Chunk ids are the
references PII entities use, so keep them unchanged when reporting findings.`

const storeInstructions = `
Documents saved in the chunk store are listed under piidoc://documents and
can be searched with the search tool.`

// Server exposes document chunks to annotation agents.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers the document tools, and the store tools and
// resources when a store service is present.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "piidoc", Version: Version},
			&mcp.ServerOptions{Instructions: serverInstructions(ports.Store != nil)},
		),
	}

	s.registerTools()
	if ports.Store != nil {
		s.registerResources()
	}
	return s, nil
}

func serverInstructions(withStore bool) string {
	if withStore {
		return instructions + storeInstructions
	}
	return instructions
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Debug("mcp: serving on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/adapters/driving/mcp"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so annotation agents can read
document metadata and chunk streams.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead. With --store the chunk store is opened
and its documents are exposed as resources, with a search tool.

Examples:
  # Stdio mode
  piidoc mcp serve

  # HTTP mode with the chunk store
  piidoc mcp serve --port 8080 --store`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("store", false, "Expose the chunk store")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useStore, _ := cmd.Flags().GetBool("store")

	serve := func(store driving.StoreService) error {
		server, err := mcp.NewServer(&mcp.Ports{Document: documentService, Store: store})
		if err != nil {
			return err
		}
		if port > 0 {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
			return server.RunHTTP(cmd.Context(), addr)
		}
		return server.Run(cmd.Context())
	}

	if !useStore {
		return serve(nil)
	}
	return withStore(cmd.Context(), serve)
}

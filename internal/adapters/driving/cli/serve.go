package cli

import (
	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/piidoc/internal/adapters/driving/http"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chunk store over HTTP",
	Long: `Start a read-only JSON API over the chunk store.

Routes:
  GET    /health
  GET    /api/documents
  GET    /api/documents/{id}
  GET    /api/documents/{id}/chunks?context=true
  DELETE /api/documents/{id}
  GET    /api/search?q=...&limit=N`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "localhost:8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	return withStore(cmd.Context(), func(store driving.StoreService) error {
		cmd.PrintErrf("Listening on http://%s\n", addr)
		return httpapi.NewServer(store).Run(cmd.Context(), addr)
	})
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

var browseCmd = &cobra.Command{
	Use:   "browse [input]",
	Short: "Browse document chunks interactively",
	Long: `Open an interactive terminal browser over the chunk stream of a
document. Select a chunk to see its payload and context.

With --stored the argument is the id of a document in the chunk store.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Bool("stored", false, "Browse a document from the chunk store")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	stored, _ := cmd.Flags().GetBool("stored")
	source := tui.Source{Path: args[0], Stored: stored}

	run := func(store driving.StoreService) error {
		app, err := tui.NewApp(&tui.Ports{Document: documentService, Store: store}, source)
		if err != nil {
			return err
		}
		return app.WithContext(cmd.Context()).Run()
	}

	if !stored {
		if err := requireDocuments(); err != nil {
			return err
		}
		return run(nil)
	}
	return withStore(cmd.Context(), run)
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the chunk store",
	Long: `Save documents into the local chunk store, list them, read their
chunks back and search them. The store lives in the store.dir setting.`,
}

var storeSaveCmd = &cobra.Command{
	Use:   "save [input...]",
	Short: "Save documents into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStoreSave,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print the chunks of a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreChunks,
}

var storeExportCmd = &cobra.Command{
	Use:   "export [doc-id] [output]",
	Short: "Write a stored document to a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreExport,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

var storeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreSearch,
}

func init() {
	storeChunksCmd.Flags().BoolP("context", "c", false, "Include stored positional context")
	storeExportCmd.Flags().StringP("format", "f", "", "Output format (yaml, json, text)")
	storeExportCmd.Flags().IntP("indent", "i", 0, "JSON indent or text level indent (default from settings)")
	storeExportCmd.Flags().StringSlice("context-fields", nil, "Context fields to write out")
	storeSearchCmd.Flags().IntP("limit", "n", 10, "Maximum number of results")

	storeCmd.AddCommand(storeSaveCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeChunksCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeSearchCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreSave(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	return withStore(cmd.Context(), func(store driving.StoreService) error {
		for _, path := range args {
			doc, err := documentService.Open(cmd.Context(), path, driving.OpenOptions{})
			if err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), doc); err != nil {
				return err
			}
			cmd.Printf("Saved %s as %s\n", path, doc.ID())
		}
		return nil
	})
}

func runStoreList(cmd *cobra.Command, _ []string) error {
	return withStore(cmd.Context(), func(store driving.StoreService) error {
		docs, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			cmd.Println("No documents stored.")
			return nil
		}

		cmd.Printf("%-38s %-9s %6s  %s\n", "ID", "TYPE", "CHUNKS", "SAVED")
		for _, d := range docs {
			cmd.Printf("%-38s %-9s %6d  %s\n", d.ID, d.Type, d.ChunkCount, d.SavedAt.Local().Format(time.DateTime))
		}
		return nil
	})
}

func runStoreChunks(cmd *cobra.Command, args []string) error {
	withContext, _ := cmd.Flags().GetBool("context")

	return withStore(cmd.Context(), func(store driving.StoreService) error {
		chunks, err := store.Chunks(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeChunks(cmd.OutOrStdout(), chunks, withContext)
	})
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}
	saveOpts, err := saveOptions(cmd)
	if err != nil {
		return err
	}

	return withStore(cmd.Context(), func(store driving.StoreService) error {
		doc, err := store.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := documentService.Save(cmd.Context(), doc, args[1], saveOpts); err != nil {
			return err
		}
		if args[1] != "-" {
			cmd.Printf("Exported %s -> %s\n", args[0], args[1])
		}
		return nil
	})
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(store driving.StoreService) error {
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", args[0])
		return nil
	})
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withStore(cmd.Context(), func(store driving.StoreService) error {
		hits, err := store.Search(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			cmd.Println("No results found.")
			return nil
		}

		cmd.Printf("Results: %d\n\n", len(hits))
		for i, h := range hits {
			cmd.Printf("%d. %s #%s (score %.3f)\n", i+1, h.DocID, h.ChunkID, h.Score)
			cmd.Printf("   %s\n", truncate(h.Data, 120))
		}
		return nil
	})
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:n-3]))
}

package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks [input]",
	Short: "Print the chunk stream of a document",
	Long: `Print the flattened chunk stream of a document, one JSON object per line.

With --context each chunk carries its positional context and its
neighbour chunks. Output is pretty-printed when stdout is a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunks,
}

func init() {
	chunksCmd.Flags().BoolP("context", "c", false, "Include chunk context (default from settings)")
	chunksCmd.Flags().IntP("limit", "n", 0, "Stop after N chunks (0 = all)")
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}
	withContext := contextFlag(cmd, "context")
	limit, _ := cmd.Flags().GetInt("limit")

	doc, err := documentService.Open(cmd.Context(), args[0], driving.OpenOptions{WithContext: withContext})
	if err != nil {
		return err
	}

	enc := chunkEncoder(cmd.OutOrStdout())
	n := 0
	for c := range doc.Chunks() {
		if limit > 0 && n == limit {
			break
		}
		if err := enc.Encode(c.AsMap(withContext)); err != nil {
			return err
		}
		n++
	}
	return nil
}

// chunkEncoder writes compact lines, or indented objects on a terminal.
func chunkEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if isTerminal(w) {
		enc.SetIndent("", "  ")
	}
	return enc
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeChunks prints chunks the way the chunks command does.
func writeChunks(w io.Writer, chunks []domain.Chunk, withContext bool) error {
	enc := chunkEncoder(w)
	for _, c := range chunks {
		if err := enc.Encode(c.AsMap(withContext)); err != nil {
			return err
		}
	}
	return nil
}

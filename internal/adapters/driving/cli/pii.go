package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/pii"
)

var piiCmd = &cobra.Command{
	Use:   "pii",
	Short: "Work with PII collections",
	Long: `Inspect PII entity collections (NDJSON, JSONL or JSON) produced by
detection tools for a source document.`,
}

var piiVerifyCmd = &cobra.Command{
	Use:   "verify [collection] [document]",
	Short: "Check that entities resolve to document chunks",
	Long: `Check every entity of a collection against a source document: the
chunk it references must exist and its span must fit the chunk text.`,
	Args: cobra.ExactArgs(2),
	RunE: runPiiVerify,
}

var piiDumpCmd = &cobra.Command{
	Use:   "dump [collection]",
	Short: "Rewrite a collection in another format",
	Args:  cobra.ExactArgs(1),
	RunE:  runPiiDump,
}

var piiChunksCmd = &cobra.Command{
	Use:   "chunks [collection]",
	Short: "Show entities grouped by chunk",
	Args:  cobra.ExactArgs(1),
	RunE:  runPiiChunks,
}

func init() {
	piiDumpCmd.Flags().StringP("format", "f", pii.DumpNDJSON, "Output format (ndjson, jsonl, json)")

	piiCmd.AddCommand(piiVerifyCmd)
	piiCmd.AddCommand(piiDumpCmd)
	piiCmd.AddCommand(piiChunksCmd)
	rootCmd.AddCommand(piiCmd)
}

func runPiiVerify(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}
	if piiService == nil {
		return errors.New("pii service not configured")
	}

	coll, err := pii.Load(args[0])
	if err != nil {
		return err
	}
	doc, err := documentService.Open(cmd.Context(), args[1], driving.OpenOptions{})
	if err != nil {
		return err
	}

	report, err := piiService.Verify(cmd.Context(), doc, coll.Entities())
	if err != nil {
		return err
	}

	cmd.Printf("Entities: %d\n", report.Entities)
	cmd.Printf("Chunks:   %d\n", report.Chunks)
	for _, id := range report.Missing {
		cmd.Printf("  missing chunk: %s\n", id)
	}
	for _, e := range report.OutOfRange {
		cmd.Printf("  out of range: %s in chunk %s [%d:%d]\n", e.Info.Type, e.ChunkID, e.Pos, e.End())
	}
	if !report.OK() {
		return fmt.Errorf("%d missing chunks, %d entities out of range", len(report.Missing), len(report.OutOfRange))
	}
	cmd.Println("OK")
	return nil
}

func runPiiDump(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	coll, err := pii.Load(args[0])
	if err != nil {
		return err
	}
	return coll.Dump(cmd.OutOrStdout(), format)
}

func runPiiChunks(cmd *cobra.Command, args []string) error {
	coll, err := pii.Load(args[0])
	if err != nil {
		return err
	}

	for group := range pii.ByChunk(coll.Entities()) {
		values := make([]string, len(group))
		for i, e := range group {
			values[i] = fmt.Sprintf("%s %q@%d", e.Info.Type, e.Value, e.Pos)
		}
		cmd.Printf("%s: %s\n", group[0].ChunkID, strings.Join(values, ", "))
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

var infoCmd = &cobra.Command{
	Use:   "info [input]",
	Short: "Show document metadata and chunk count",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	info, err := documentService.Info(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headingStyle.Render("Document"))
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("ID:    "), info.ID)
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("Type:  "), info.Type)
	fmt.Fprintf(out, "  %s %d\n", labelStyle.Render("Chunks:"), info.ChunkCount)
	fmt.Fprintln(out)
	printMetadata(out, info.Metadata)
	return nil
}

// printMetadata writes metadata sections with sorted keys.
func printMetadata(out io.Writer, md domain.Metadata) {
	fmt.Fprintln(out, headingStyle.Render("Metadata"))
	for _, section := range md.Sections() {
		values := md[section]
		fmt.Fprintf(out, "  [%s]\n", section)
		for _, k := range slices.Sorted(maps.Keys(values)) {
			fmt.Fprintf(out, "    %s %v\n", labelStyle.Render(k+":"), values[k])
		}
	}
}

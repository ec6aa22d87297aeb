package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect module configuration files",
}

var configShowCmd = &cobra.Command{
	Use:   "show [file...]",
	Short: "Show merged module configuration",
	Long: `Load one or more module configuration files (JSON or YAML) and print
the merged result as YAML.

Files tagged piisa:config:full hold a list of module sections; any
other piisa:config file is a single section. Use --format to keep only
the given section tags (e.g. --format blurb:v1).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigShow,
}

func init() {
	configShowCmd.Flags().StringSlice("format", nil, "Section tags to keep")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if moduleConfigService == nil {
		return errors.New("module config service not configured")
	}
	formats, _ := cmd.Flags().GetStringSlice("format")

	merged, err := moduleConfigService.Show(args, formats...)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(merged); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	return enc.Close()
}

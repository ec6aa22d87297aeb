package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// defaultIndent applies when neither the flag nor the settings give one.
const defaultIndent = 2

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert a document to YAML, JSON or text",
	Long: `Convert a serialized document or a raw input into a document file.

The input may be a YAML or JSON document, or a raw .txt, .md, .csv,
.pdf or .docx file. The output format follows the output extension
(.yaml, .json, .txt) unless --format is given. Use "-" for stdin or
stdout. Compressed .gz files are handled transparently.

With --watch the conversion re-runs every time the input changes.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("format", "f", "", "Output format (yaml, json, text)")
	convertCmd.Flags().IntP("indent", "i", 0, "JSON indent or text level indent (default from settings)")
	convertCmd.Flags().StringSlice("context-fields", nil, "Context fields to write out")
	convertCmd.Flags().BoolP("context", "c", false, "Attach neighbour context to the document")
	convertCmd.Flags().BoolP("watch", "w", false, "Re-run the conversion when the input changes")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}
	in, out := args[0], args[1]

	openOpts := driving.OpenOptions{WithContext: contextFlag(cmd, "context")}
	saveOpts, err := saveOptions(cmd)
	if err != nil {
		return err
	}

	convert := func() error {
		if err := documentService.Convert(cmd.Context(), in, out, openOpts, saveOpts); err != nil {
			return err
		}
		if out != "-" {
			cmd.Printf("Converted %s -> %s\n", in, out)
		}
		return nil
	}

	if err := convert(); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}
	if in == "-" {
		return fmt.Errorf("cannot watch stdin")
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", in)
	return watchFile(cmd.Context(), in, func() {
		if err := convert(); err != nil {
			logger.Warn("convert %s: %v", in, err)
		}
	})
}

// saveOptions reads the output flags, falling back to settings.
func saveOptions(cmd *cobra.Command) (driving.SaveOptions, error) {
	format, _ := cmd.Flags().GetString("format")
	opts := driving.SaveOptions{Format: format, Indent: defaultIndent}

	if cmd.Flags().Changed("indent") {
		indent, _ := cmd.Flags().GetInt("indent")
		if indent < 0 {
			return opts, fmt.Errorf("indent must not be negative: %d", indent)
		}
		opts.Indent = indent
	} else if settingsService != nil {
		opts.Indent = settingsService.OutputIndent()
	}

	if cmd.Flags().Changed("context-fields") {
		fields, _ := cmd.Flags().GetStringSlice("context-fields")
		opts.ContextFields = append([]string{}, fields...)
	}
	return opts, nil
}

// contextFlag returns the named bool flag, or the iterate.context setting
// when the flag was not given.
func contextFlag(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	if settingsService != nil {
		return settingsService.ContextDefault()
	}
	return false
}

// watchFile calls onChange after every write to path until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isChange(event, target) {
				logger.Debug("watch: %s %s", event.Op, event.Name)
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// isChange reports whether event rewrote the watched file.
func isChange(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

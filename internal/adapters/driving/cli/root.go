// Package cli provides the piidoc command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// DocumentServiceFactory builds the document service for a raw text indent.
type DocumentServiceFactory func(rawIndent int) driving.DocumentService

// StoreOpener opens the chunk store. The returned func releases it.
type StoreOpener func(ctx context.Context) (driving.StoreService, func() error, error)

// Services holds the core services the commands run against.
type Services struct {
	Documents    DocumentServiceFactory
	Settings     driving.SettingsService
	ModuleConfig driving.ModuleConfigService
	Pii          driving.PiiService
	Store        StoreOpener
}

var (
	version = "dev"

	documentFactory     DocumentServiceFactory
	documentService     driving.DocumentService
	settingsService     driving.SettingsService
	moduleConfigService driving.ModuleConfigService
	piiService          driving.PiiService
	openStore           StoreOpener
)

var (
	verbose   bool
	rawIndent int
)

var rootCmd = &cobra.Command{
	Use:   "piidoc",
	Short: "Source documents for PII annotation",
	Long: `piidoc turns source documents into addressable chunk streams.

Documents are sequences, trees or tables of chunks. Serialized documents
(YAML, JSON) and raw inputs (text, Markdown, CSV, PDF, DOCX) can be
converted, inspected, stored and served to annotation tools.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output on stderr")
	rootCmd.PersistentFlags().IntVar(&rawIndent, "raw-indent", 2, "Spaces per level when reading raw text")
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if documentFactory != nil {
		documentService = documentFactory(rawIndent)
	}
	return nil
}

// Execute runs the root command with the given services.
func Execute(ctx context.Context, v string, s Services) error {
	version = v
	documentFactory = s.Documents
	settingsService = s.Settings
	moduleConfigService = s.ModuleConfig
	piiService = s.Pii
	openStore = s.Store
	return rootCmd.ExecuteContext(ctx)
}

func requireDocuments() error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	return nil
}

// withStore opens the chunk store for the duration of fn.
func withStore(ctx context.Context, fn func(driving.StoreService) error) (err error) {
	if openStore == nil {
		return errors.New("chunk store not configured")
	}
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(store)
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/config/module"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/format"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/core/services"
	"github.com/custodia-labs/piidoc/internal/normalisers"
)

const sampleYAML = `format: piisa:src-document:v1
header:
  document:
    id: doc-1
    main_lang: en
chunks:
  - Alice lives in Paris
  - Bob lives in Rome
  - Carol lives in Oslo
`

// setupTestServices wires real services over temporary storage and
// restores the previous package state on cleanup.
func setupTestServices(t *testing.T) {
	t.Helper()

	configStore, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	storeService := services.NewStoreService(memory.NewChunkStore(), nil)

	oldDocuments, oldSettings, oldModule, oldPii, oldStore :=
		documentService, settingsService, moduleConfigService, piiService, openStore

	documentService = services.NewDocumentService(format.NewLoader(), normalisers.Default(2), format.NewFiles())
	settingsService = services.NewSettingsService(configStore, t.TempDir())
	moduleConfigService = services.NewModuleConfigService(module.NewLoader())
	piiService = services.NewPiiService()
	openStore = func(context.Context) (driving.StoreService, func() error, error) {
		return storeService, func() error { return nil }, nil
	}

	t.Cleanup(func() {
		documentService, settingsService, moduleConfigService, piiService, openStore =
			oldDocuments, oldSettings, oldModule, oldPii, oldStore
	})
}

// resetFlags puts every flag back to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Command piidoc converts, inspects and serves source documents for PII
// annotation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/piidoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/config/module"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/format"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/search/bleve"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/cli"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/core/services"
	"github.com/custodia-labs/piidoc/internal/logger"
	"github.com/custodia-labs/piidoc/internal/normalisers"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settingsDir := filepath.Dir(configStore.Path())
	settings := services.NewSettingsService(configStore, filepath.Join(settingsDir, "store"))

	loader := format.NewLoader()
	files := format.NewFiles()

	return cli.Execute(ctx, version, cli.Services{
		Documents: func(rawIndent int) driving.DocumentService {
			return services.NewDocumentService(loader, normalisers.Default(rawIndent), files)
		},
		Settings:     settings,
		ModuleConfig: services.NewModuleConfigService(module.NewLoader()),
		Pii:          services.NewPiiService(),
		Store: func(context.Context) (driving.StoreService, func() error, error) {
			return openStore(settings.StoreDir())
		},
	})
}

// openStore opens the SQLite chunk store and its bleve search index in dir.
func openStore(dir string) (driving.StoreService, func() error, error) {
	defer logger.Timed("open store %s", dir)()

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening chunk store: %w", err)
	}
	index, err := bleve.Open(filepath.Join(dir, "index.bleve"))
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("opening search index: %w", err)
	}

	closeAll := func() error {
		return errors.Join(index.Close(), store.Close())
	}
	return services.NewStoreService(store, index), closeAll, nil
}

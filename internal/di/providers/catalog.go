package providers

import (
	"github.com/samber/do/v2"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/config"
	"github.com/cardchronicle/chronicle-server/internal/logger"
)

// CatalogHandle wraps the catalog store and its optional file watcher.
type CatalogHandle struct {
	*catalog.Store
	watcher *catalog.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
	h.Store.Shutdown()
	return nil
}

// ProvideCatalog provides the card catalog. Local files take precedence
// over the upstream feeds; file-backed catalogs reload on change.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	useFiles := cfg.Catalog.CardsFile != "" || cfg.Catalog.SetsFile != ""

	var source catalog.Source
	if useFiles {
		source = catalog.NewFileSource(cfg.Catalog.CardsFile, cfg.Catalog.SetsFile)
		log.Info("Catalog source: local files",
			"cards_file", cfg.Catalog.CardsFile,
			"sets_file", cfg.Catalog.SetsFile,
		)
	} else {
		source = catalog.NewClient(cfg.Catalog.CardsURL, cfg.Catalog.SetsURL, log.Logger)
		log.Info("Catalog source: upstream feeds",
			"cards_url", cfg.Catalog.CardsURL,
			"sets_url", cfg.Catalog.SetsURL,
		)
	}

	cat := catalog.NewStore(source, log.Logger)
	cat.Start(cfg.Catalog.RefreshInterval)

	handle := &CatalogHandle{Store: cat}

	if useFiles {
		var paths []string
		if cfg.Catalog.CardsFile != "" {
			paths = append(paths, cfg.Catalog.CardsFile)
		}
		if cfg.Catalog.SetsFile != "" {
			paths = append(paths, cfg.Catalog.SetsFile)
		}
		watcher, err := catalog.NewWatcher(cat, log.Logger, paths...)
		if err != nil {
			log.Warn("Catalog file watching unavailable", "error", err)
		} else {
			handle.watcher = watcher
		}
	}

	return handle, nil
}

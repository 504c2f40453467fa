package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/errors"
)

// FileSource loads the catalog from local JSON files instead of the
// remote endpoints. The files use the same document shapes as the remote
// catalog, so an exported catalog can be dropped in directly.
type FileSource struct {
	cardsPath string
	setsPath  string
}

// NewFileSource creates a source reading from the given file paths.
// Either path may be empty; the corresponding fetch then returns no data.
func NewFileSource(cardsPath, setsPath string) *FileSource {
	return &FileSource{cardsPath: cardsPath, setsPath: setsPath}
}

func (f *FileSource) Cards(_ context.Context) ([]domain.Card, error) {
	if f.cardsPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(f.cardsPath)
	if err != nil {
		return nil, fmt.Errorf("read cards file: %w", err)
	}

	var resp cardsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Decode("parse cards file").WithCause(err)
	}

	cards := make([]domain.Card, 0, len(resp.Cards))
	for _, d := range resp.Cards {
		cards = append(cards, domain.Card{
			ID:            d.ID,
			Name:          d.Name,
			SmallImageURL: d.SmallImageURL,
			LargeImageURL: d.LargeImageURL,
			SetID:         d.SetID,
		})
	}
	return cards, nil
}

func (f *FileSource) Sets(_ context.Context) ([]domain.CardSet, error) {
	if f.setsPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(f.setsPath)
	if err != nil {
		return nil, fmt.Errorf("read sets file: %w", err)
	}

	var dtos []setDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, errors.Decode("parse sets file").WithCause(err)
	}

	sets := make([]domain.CardSet, 0, len(dtos))
	for _, d := range dtos {
		sets = append(sets, domain.CardSet{ID: d.ID, Name: d.Name})
	}
	return sets, nil
}

// Watcher reloads the catalog store when the source files change.
// Events are debounced: editors and atomic-save tools emit bursts of
// writes and renames for a single logical save.
type Watcher struct {
	store  *Store
	logger *slog.Logger
	fsw    *fsnotify.Watcher

	paths map[string]struct{}

	mu      sync.Mutex
	pending *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

const watchDebounce = 500 * time.Millisecond

// NewWatcher watches the parent directories of the given files and
// refreshes the store when either file changes. Watching the directory
// rather than the file survives rename-based atomic saves.
func NewWatcher(store *Store, logger *slog.Logger, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		store:  store,
		logger: logger,
		fsw:    fsw,
		paths:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.paths[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.paths[abs]; !watched {
				continue
			}
			w.scheduleRefresh(abs)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", "error", err)
		}
	}
}

func (w *Watcher) scheduleRefresh(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(watchDebounce, func() {
		w.logger.Info("catalog file changed, reloading", "path", path)
		if err := w.store.Refresh(context.Background()); err != nil {
			w.logger.Warn("catalog reload failed", "error", err)
		}
	})
}

// Close stops the watcher. Any pending debounced reload is dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

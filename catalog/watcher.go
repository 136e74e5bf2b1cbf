package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// seedDebounce is how long to wait for further writes before re-seeding.
// Editors often emit several events for a single save.
const seedDebounce = 500 * time.Millisecond

// SeedWatcher watches the local seed file and re-seeds the catalog when it
// changes. Intended for development runs; disabled by default.
type SeedWatcher struct {
	store   *Store
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewSeedWatcher creates a watcher on the seed file feeding the given store.
func NewSeedWatcher(store *Store, path string, logger *slog.Logger) (*SeedWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the parent directory: editors replace files on save, which
	// drops a watch registered on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SeedWatcher{store: store, path: path, watcher: fsw, logger: logger}, nil
}

// Run blocks, re-seeding the catalog on each change to the seed file,
// until ctx is cancelled.
func (w *SeedWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer
	reseed := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(seedDebounce, func() {
				select {
				case reseed <- struct{}{}:
				default:
				}
			})

		case <-reseed:
			if _, err := w.store.ResetFromDefault(ctx); err != nil {
				w.logger.Warn("Seed file changed but reload failed", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("Catalog re-seeded from changed seed file", "path", w.path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Seed watcher error", "error", err)
		}
	}
}

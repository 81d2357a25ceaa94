// Package watch feeds the stub's indeferimento roster from CSV files dropped
// into an import directory.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"licenca_dashboard/internal/store"
)

// Watcher monitors the import directory and upserts every *.csv it sees.
type Watcher struct {
	dir string
	st  *store.Store
}

func New(dir string, st *store.Store) *Watcher {
	return &Watcher{dir: dir, st: st}
}

func (w *Watcher) Start(ctx context.Context) error {
	if w.dir == "" {
		log.Println("import watcher disabled")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && isCSV(evt.Name) {
					w.ingest(ctx, evt.Name)
				}
			case err := <-watcher.Errors:
				log.Printf("import watcher error: %v", err)
			}
		}
	}()
	return watcher.Add(w.dir)
}

// Backfill imports files already sitting in the directory at startup.
func (w *Watcher) Backfill(ctx context.Context) error {
	if w.dir == "" {
		return nil
	}
	entries, err := filepath.Glob(filepath.Join(w.dir, "*.csv"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.ingest(ctx, e)
	}
	return nil
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	n, err := w.st.ImportIndeferimentosCSV(ctx, path)
	if err != nil {
		log.Printf("import %s: %v", path, err)
		return
	}
	log.Printf("import %s: %d linhas", path, n)
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

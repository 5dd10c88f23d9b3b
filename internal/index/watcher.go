package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okvist/gitnote/internal/checksum"
	"github.com/okvist/gitnote/internal/storage"
)

// debounce is how long the watcher waits after the last relevant
// event before running a sync cycle, so editor write bursts collapse
// into one build.
const debounce = 300 * time.Millisecond

// Watch observes the notes directory and runs a sync cycle whenever a
// Markdown file's content actually changes. Events that leave the
// content byte-identical (editor temp shuffles, double saves) are
// dropped via a checksum cache. New subdirectories created at runtime
// are added to the watch list. Watch returns when ctx is cancelled.
func Watch(ctx context.Context, syncer *Syncer, files storage.Provider, repoRoot, notesDir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	absNotes := filepath.Join(repoRoot, notesDir)
	if err := addDirsRecursive(w, absNotes); err != nil {
		return err
	}

	// Seed the checksum cache so pre-existing files only trigger a
	// sync when they change.
	sums := make(map[string]string)
	if metas, listErr := files.List(notesDir); listErr == nil {
		for _, m := range metas {
			sums[m.Path] = m.Checksum
		}
	}

	logger.Info("watcher: started", slog.String("dir", absNotes))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			if err := syncer.Sync(); err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !strings.HasSuffix(ev.Name, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(repoRoot, ev.Name)
			if relErr != nil {
				continue
			}
			data, readErr := files.Read(rel)
			if readErr != nil {
				continue
			}
			sum := checksum.Sum(data)
			if sums[rel] == sum {
				continue
			}
			sums[rel] = sum
			logger.Debug("watcher: change detected", slog.String("path", rel))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

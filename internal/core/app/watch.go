package app

import (
	"context"
	"os"
	"time"

	"esmlex/internal/core/watcher"
	"esmlex/internal/shared/util"
)

// Update is one debounced watch cycle.
type Update struct {
	At      time.Time
	Files   []FileReport
	Removed []string
}

// Watch re-lexes files below roots as they change until ctx is done. onUpdate
// is called serially, once per debounced batch.
func (a *App) Watch(ctx context.Context, roots []string, onUpdate func(Update)) error {
	roots, err := util.UniqueRoots(roots)
	if err != nil {
		return err
	}

	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.filter, func(paths []string) {
		onUpdate(a.HandleChanges(ctx, paths))
	})
	if err != nil {
		return err
	}
	w.SetLogger(a.logger)
	defer w.Close()

	if err := w.Watch(roots); err != nil {
		return err
	}
	a.logger.Info("watching", "roots", roots, "debounce", a.Config.Watch.Debounce)

	select {
	case <-ctx.Done():
		return nil
	case <-w.Done():
		return nil
	}
}

// HandleChanges lexes the changed paths that still exist and reports the rest
// as removed.
func (a *App) HandleChanges(ctx context.Context, paths []string) Update {
	update := Update{At: time.Now()}
	present := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			update.Removed = append(update.Removed, path)
			continue
		}
		present = append(present, path)
	}
	update.Files = a.LexFiles(ctx, present)
	return update
}

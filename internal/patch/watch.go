package patch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watch re-applies a patch whenever its vendored source changes, so edits to
// the custom calculators land in the checkout without re-running provisioning.
// It blocks until ctx is cancelled.
func (s *Set) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Infof("Error closing watcher: %s", err)
		}
	}()

	if err = watcher.Add(s.VendorDir); err != nil {
		return fmt.Errorf("could not watch vendor directory '%s': %w", s.VendorDir, err)
	}
	logging.Infof("Watching %s for changes to vendored patches", s.VendorDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			source := filepath.Base(event.Name)
			applied, err := s.ApplyOne(source)
			if err != nil {
				// Files in the vendor directory that are not part of the
				// pair list are simply ignored.
				logging.Debugf("Skipping %s: %s", source, err)
				continue
			}
			logging.Infof("Re-applied %s -> %s", source, applied.Destination)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logging.Infof("FSNotify error: %v", err)
		}
	}
}

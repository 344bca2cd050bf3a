package file

import (
	"clientbook/internal/ports"
	"clientbook/internal/types"
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch signals n with an OpExternal change whenever another process rewrites the slot
// file. Writes made through this Slot are recognized by content and ignored.
// It blocks until ctx is done.
func (s *Slot) Watch(ctx context.Context, n ports.ChangeNotifier) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	// Watch the directory: a rename-into-place replaces the file's inode.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			payload, err := s.Read(ctx)
			if err != nil {
				log.WithError(err).WithField("path", s.path).Warn("failed to read slot after change")
				continue
			}
			if payload == nil || s.ownWrite(payload) {
				continue
			}
			log.WithField("path", s.path).Info("slot changed on disk")
			n.Notify(types.Change{Op: types.OpExternal, At: time.Now().Unix()})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("slot watcher error")
		}
	}
}

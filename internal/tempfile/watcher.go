package tempfile

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/logging"
)

// Watcher registers temp files created in the working directory by external
// processes. FFmpeg writes its output file directly, and helper tools may
// drop intermediates there; watching the directory means every stray file
// ends up in the cleanup registry without each writer having to report in.
type Watcher struct {
	fw       *fsnotify.Watcher
	registry *Registry
	logger   *logging.Logger
	done     chan struct{}
}

// NewWatcher starts watching dir and registering created temp files.
func NewWatcher(dir string, registry *Registry, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filesystem watcher")
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch working directory %s", dir)
	}

	w := &Watcher{
		fw:       fw,
		registry: registry,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// run consumes filesystem events until the watcher is closed.
func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watcher error", "error", err)
		}
	}
}

// handleEvent registers newly created temp files and drops registry entries
// for files removed or renamed behind our back.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if !strings.HasPrefix(name, tempPrefix) {
		return
	}

	switch {
	case ev.Has(fsnotify.Create):
		if !w.registry.Contains(ev.Name) {
			w.registry.Register(ev.Name, "")
			w.logger.Debug("watcher registered stray temp file", "path", ev.Name)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if w.registry.Unregister(ev.Name) {
			w.logger.Debug("watcher unregistered removed temp file", "path", ev.Name)
		}
	}
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/quilled/quill/internal/logging"
)

// ReloadFunc receives the freshly loaded settings after the config file
// changes on disk.
type ReloadFunc func(Config)

// Watcher reloads the config file when it is rewritten. The containing
// directory is watched rather than the file itself so editors that replace
// the file on save (write to temp, rename over) are still observed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     *logging.Logger
	reload  ReloadFunc

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewWatcher watches the config file at path and calls reload on change.
func NewWatcher(path string, log *logging.Logger, reload ReloadFunc) (*Watcher, error) {
	if log == nil {
		log = logging.Null
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		watcher: fsw,
		log:     log.WithComponent("config"),
		reload:  reload,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("reload failed: %v", err)
				continue
			}
			w.log.Info("reloaded %s", w.path)
			w.reload(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error: %v", err)
		}
	}
}

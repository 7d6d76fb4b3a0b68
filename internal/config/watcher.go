package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ldpstore/internal/apperrors"
)

// Watcher hot-reloads extension-graphs and include-ldp-type from path,
// debouncing rapid successive writes. rdf-location is read once by Load
// and never touched again: it selects the adapter implementation, which
// is not swappable at runtime.
type Watcher struct {
	mu        sync.RWMutex
	path      string
	current   *Config
	callbacks []func(*Config)
	logger    *zap.Logger
	fsWatcher *fsnotify.Watcher
	stop      chan struct{}
}

// NewWatcher starts watching path for changes and begins reloading
// immediately. Call Close to stop.
func NewWatcher(path string, initial *Config, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperrors.Internal("creating file watcher", err)
	}
	if path != "" {
		if err := fsWatcher.Add(path); err != nil {
			logger.Warn("could not watch config file", zap.String("path", path), zap.Error(err))
		}
	}

	w := &Watcher{
		path:    path,
		current: initial,
		logger:  logger,
		fsWatcher: fsWatcher,
		stop:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// OnChange registers a callback invoked with the newly loaded Config
// after every successful reload.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) Close() error {
	close(w.stop)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, w.reload)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous configuration", zap.Error(err))
		return
	}
	w.mu.Lock()
	// rdf-location is fixed at process start; never adopt a changed value.
	cfg.RdfLocation = w.current.RdfLocation
	w.current = cfg
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded", zap.String("path", w.path))
	for _, cb := range callbacks {
		cb(cfg)
	}
}

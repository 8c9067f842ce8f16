package config

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/termxml/terminology"
)

// WatcherConfig configures the terminology file watcher
type WatcherConfig struct {
	// Terminology describes the definition file and its overrides
	Terminology TerminologyConfig

	// DebounceDelay is how long to wait for more changes before rebuilding
	DebounceDelay time.Duration

	// OnChange receives each terminology rebuilt after a change
	OnChange func(*terminology.Terminology)

	// OnError receives rebuild failures; the previous terminology stays current
	OnError func(error)

	// Logger for logging events
	Logger *slog.Logger
}

// Watcher rebuilds a terminology when its definition file changes
type Watcher struct {
	config  WatcherConfig
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	current atomic.Pointer[terminology.Terminology]

	pendingMu sync.Mutex
	pending   bool

	started atomic.Bool
	done    chan struct{}
}

// NewWatcher builds the initial terminology and prepares a watch on its
// definition file.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Terminology.File == "" {
		return nil, errors.New("watcher requires a terminology file")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 100 * time.Millisecond
	}

	terms, err := config.Terminology.build()
	if err != nil {
		return nil, err
	}

	path, err := filepath.Abs(config.Terminology.File)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:  config,
		path:    path,
		watcher: fsw,
		logger:  logger,
		done:    make(chan struct{}),
	}
	w.current.Store(terms)
	return w, nil
}

// Current returns the most recently built terminology.
func (w *Watcher) Current() *terminology.Terminology {
	return w.current.Load()
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file on save are followed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.started.Store(true)
	go w.processEvents(ctx)

	w.logger.Info("Terminology watcher started",
		slog.String("path", w.path),
		slog.Duration("debounce", w.config.DebounceDelay))
	return nil
}

// Stop stops the watcher and waits for event processing to end.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started.Load() {
		<-w.done
	}
	return err
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Terminology change detected", slog.String("op", event.Op.String()))
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	terms, err := w.config.Terminology.build()
	if err != nil {
		w.logger.Warn("Failed to rebuild terminology, keeping previous",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
		if w.config.OnError != nil {
			w.config.OnError(err)
		}
		return
	}

	w.current.Store(terms)
	w.logger.Info("Reloaded terminology", slog.String("path", w.path))
	if w.config.OnChange != nil {
		w.config.OnChange(terms)
	}
}

package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aoc-runner/aoc22/internal/logger"
)

var log = logger.ForComponent("watcher")

// ErrDisabled is returned by New when the config has watching turned off.
var ErrDisabled = errors.New("input watching is disabled (watcher.enabled: false)")

// Watcher re-runs puzzle days whose input files change on disk.
type Watcher struct {
	config      WatcherConfig
	fsWatcher   *fsnotify.Watcher
	fsWatcherMu sync.Mutex
	debouncer   *Debouncer
	classifier  *EventClassifier
	onChange    func(days []int)
	roots       []string
	mu          sync.RWMutex
	running     bool
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

func New(config WatcherConfig, resolve DayResolver, onChange func(days []int)) (*Watcher, error) {
	if !config.Enabled {
		return nil, ErrDisabled
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:     config,
		fsWatcher:  fsWatcher,
		classifier: NewEventClassifier(resolve),
		onChange:   onChange,
		roots:      make([]string, 0),
	}

	w.debouncer = NewDebouncer(config.DebounceWindow, config.MaxBatchSize, w.onFlush)

	return w, nil
}

func (w *Watcher) AddRoot(path string) error {
	log.Info("adding root to watch", "path", path)

	w.fsWatcherMu.Lock()
	err := w.fsWatcher.Add(path)
	w.fsWatcherMu.Unlock()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.roots = append(w.roots, path)
	w.mu.Unlock()

	return nil
}

func (w *Watcher) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.roots...)
}

func (w *Watcher) Start(ctx context.Context) error {
	log.Info("starting input watcher")

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	w.running = true
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.handleEvents()

	return nil
}

func (w *Watcher) handleEvents() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			log.Debug("file event", "path", event.Name, "op", event.Op.String())

			if fileEvent := w.convertEvent(event); fileEvent != nil {
				w.debouncer.Add(*fileEvent)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) convertEvent(event fsnotify.Event) *FileEvent {
	if w.shouldIgnore(event.Name) {
		return nil
	}

	var eventType EventType

	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventModify
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return nil
	}

	return &FileEvent{
		Path:      event.Name,
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

func (w *Watcher) onFlush(events []FileEvent) {
	days := w.classifier.Days(events)
	log.Info("flushing events", "count", len(events), "days", days)

	if len(days) == 0 || w.onChange == nil {
		return
	}

	w.onChange(days)
}

func (w *Watcher) shouldIgnore(path string) bool {
	basename := filepath.Base(path)

	if !w.config.WatchHidden && strings.HasPrefix(basename, ".") {
		return true
	}

	slashed := filepath.ToSlash(path)
	for _, pattern := range w.config.IgnorePatterns {
		if match, _ := doublestar.Match(pattern, slashed); match {
			return true
		}
		if match, _ := doublestar.Match(pattern, basename); match {
			return true
		}
	}

	return false
}

func (w *Watcher) Stop() error {
	log.Info("stopping input watcher")

	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.closeFS()
	}

	w.running = false
	w.cancel()
	done := w.done
	w.mu.Unlock()

	<-done
	w.debouncer.Stop()

	return w.closeFS()
}

func (w *Watcher) closeFS() error {
	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	return w.fsWatcher.Close()
}

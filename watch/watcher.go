// Package watch re-reads and re-validates SBOL files as they change on disk.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/export"
	"github.com/c360studio/sbolgraph/storage"
	"github.com/c360studio/sbolgraph/validation"
)

// DefaultDebounce is used when Config.DebounceDelay is zero.
const DefaultDebounce = 100 * time.Millisecond

// Config configures the file watcher
type Config struct {
	// Root is the directory to watch
	Root string

	// Patterns select files relative to Root. Defaults to DefaultPatterns.
	Patterns []string

	// DebounceDelay is how long to wait for more changes before processing
	DebounceDelay time.Duration

	// Validator checks each loaded document. Defaults to one built from
	// validation.DefaultOptions.
	Validator *validation.Validator

	// Codec options used when reading files.
	Codec codec.Options

	// Logger for logging events
	Logger *slog.Logger
}

// Operation indicates the type of file operation
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event represents a processed file change
type Event struct {
	// Path is the file path relative to Root
	Path string

	// Operation is the type of change
	Operation Operation

	// Document is the loaded document (nil for deletes and read errors)
	Document *document.Document

	// CID is the content identifier of Document
	CID string

	// Warnings are the non-fatal reader warnings
	Warnings []error

	// Report is the validation outcome of Document
	Report *validation.Report

	// Error if reading or validating failed
	Error error
}

// Watcher watches a directory tree for SBOL file changes and emits
// validated documents.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → accumulated operations

	// Content identifiers for change detection
	cidMu sync.RWMutex
	cids  map[string]string // relative path → CID

	events   chan Event
	stopped  bool // guarded by pendingMu
	stopOnce sync.Once
}

// NewWatcher creates a new file watcher
func NewWatcher(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultDebounce
	}
	if len(config.Patterns) == 0 {
		config.Patterns = DefaultPatterns
	}
	if config.Validator == nil {
		config.Validator = validation.NewValidator(validation.DefaultOptions(), validation.WithLogger(config.Logger))
	}
	if config.Codec.Logger == nil {
		config.Codec.Logger = config.Logger
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  config.Logger,
		pending: make(map[string]fsnotify.Op),
		cids:    make(map[string]string),
		events:  make(chan Event, 100),
	}, nil
}

// Events returns the channel of watch events. It is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching Root for changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		slog.String("root", w.config.Root),
		slog.Duration("debounce", w.config.DebounceDelay))

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.watcher.Close()
		w.pendingMu.Lock()
		w.stopped = true
		close(w.events)
		w.pendingMu.Unlock()
	})
	return err
}

// CID returns the last seen content identifier for a relative path.
func (w *Watcher) CID(rel string) (string, bool) {
	w.cidMu.RLock()
	defer w.cidMu.RUnlock()
	c, ok := w.cids[rel]
	return c, ok
}

func (w *Watcher) setCID(rel, c string) {
	w.cidMu.Lock()
	defer w.cidMu.Unlock()
	if c == "" {
		delete(w.cids, rel)
		return
	}
	w.cids[rel] = c
}

// Scan loads and validates every matching file under Root, recording
// content identifiers so unchanged files are not reported again.
func (w *Watcher) Scan(ctx context.Context) ([]Event, error) {
	var out []Event
	err := filepath.WalkDir(w.config.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != w.config.Root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel := w.rel(path)
		if !Match(w.config.Patterns, rel) {
			return nil
		}
		ev := w.load(path, rel)
		ev.Operation = OpCreate
		out = append(out, ev)
		return nil
	})
	return out, err
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// addWatchesRecursive adds watches to all directories
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.addWatch(path)
		return nil
	})
}

func (w *Watcher) addWatch(path string) {
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch directory",
			slog.String("path", path),
			slog.Any("error", err))
		return
	}
	w.logger.Debug("Watching directory", slog.String("path", path))
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
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
			w.logger.Error("Watcher error", slog.Any("error", err))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipDir(filepath.Base(path)) {
				w.addWatch(path)
			}
			return
		}
	}

	rel := w.rel(path)
	if !Match(w.config.Patterns, rel) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		slog.String("path", rel),
		slog.String("op", event.Op.String()))
}

// flushPending processes accumulated changes
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		if ctx.Err() != nil {
			return
		}

		rel := w.rel(path)
		w.logger.Debug("Processing change",
			slog.String("path", rel),
			slog.String("op", op.String()))
		_, statErr := os.Stat(path)
		if os.IsNotExist(statErr) {
			if _, known := w.CID(rel); !known {
				continue
			}
			w.setCID(rel, "")
			w.sendEvent(Event{Path: rel, Operation: OpDelete})
			continue
		}

		old, hadCID := w.CID(rel)
		ev := w.load(path, rel)
		if hadCID && ev.CID == old {
			// Content unchanged, skip
			continue
		}
		// An atomic save replaces a known file, so Create alone is not
		// enough to call it new.
		if !hadCID {
			ev.Operation = OpCreate
		} else {
			ev.Operation = OpModify
		}
		w.sendEvent(ev)
	}
}

// load reads one file and validates the result.
func (w *Watcher) load(path, rel string) Event {
	ev := Event{Path: rel}
	doc, warnings, err := export.ReadFile(path, w.config.Codec)
	ev.Warnings = warnings
	if err != nil {
		// Keep the last good CID.
		ev.Error = err
		return ev
	}
	ev.Document = doc

	c, err := storage.ContentID(doc)
	if err != nil {
		ev.Error = err
		return ev
	}
	ev.CID = c
	w.setCID(rel, c)

	ev.Report, ev.Error = w.config.Validator.CheckAll(doc)
	return ev
}

// sendEvent sends an event to the output channel
func (w *Watcher) sendEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.stopped {
		return
	}
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			slog.String("path", event.Path),
			slog.String("op", string(event.Operation)))
	default:
		w.logger.Warn("Event channel full, dropping event",
			slog.String("path", event.Path))
	}
}

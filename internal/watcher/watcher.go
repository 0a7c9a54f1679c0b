// Package watcher observes the document file for edits made outside the service.
package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
	"git.home.luguber.info/inful/aboutme/internal/notify"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

// DocumentWatcher reports changes to the document file. It never caches the
// document: every change is read, checked and announced, then forgotten
// except for its digest.
type DocumentWatcher struct {
	path         string
	watcher      *fsnotify.Watcher
	publisher    notify.Publisher
	recorder     metrics.Recorder
	debounceTime time.Duration

	mu         sync.Mutex
	lastDigest string
	started    bool
	stopOnce   sync.Once
	stopChan   chan struct{}
	reloadChan chan struct{}
	done       chan struct{}
}

// New creates a watcher for the document at path.
func New(path string, debounce time.Duration, publisher notify.Publisher, recorder metrics.Recorder) (*DocumentWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if publisher == nil {
		publisher = notify.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &DocumentWatcher{
		path:         absPath,
		watcher:      w,
		publisher:    publisher,
		recorder:     recorder,
		debounceTime: debounce,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		done:         make(chan struct{}),
	}, nil
}

// Start watches the document's directory, which survives the rename-over
// writes that replace the file itself.
func (dw *DocumentWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(dw.path)
	if err := dw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	if data, err := os.ReadFile(dw.path); err == nil {
		dw.Acknowledge(store.Digest(data))
		dw.recorder.SetDocumentValid(json.Valid(data))
	} else {
		dw.recorder.SetDocumentValid(false)
	}
	slog.Info("Starting document watcher", logfields.File(dw.path))

	dw.mu.Lock()
	dw.started = true
	dw.mu.Unlock()
	go dw.watchLoop(ctx)
	go dw.reloadLoop(ctx)
	return nil
}

// Stop stops the watcher and waits for the debounce loop to exit.
func (dw *DocumentWatcher) Stop() error {
	var err error
	dw.stopOnce.Do(func() {
		close(dw.stopChan)
		err = dw.watcher.Close()
		dw.mu.Lock()
		started := dw.started
		dw.mu.Unlock()
		if started {
			<-dw.done
		}
	})
	return err
}

// Acknowledge records digest as already announced, so the service's own
// writes are not reported again as external changes.
func (dw *DocumentWatcher) Acknowledge(digest string) {
	dw.mu.Lock()
	dw.lastDigest = digest
	dw.mu.Unlock()
}

func (dw *DocumentWatcher) watchLoop(ctx context.Context) {
	name := filepath.Base(dw.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.stopChan:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				slog.Debug("Document change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
				dw.trigger()
			case event.Op&fsnotify.Remove != 0:
				slog.Warn("Document removed", logfields.File(event.Name))
				dw.recorder.SetDocumentValid(false)
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Document watcher error", logfields.Error(err))
		}
	}
}

func (dw *DocumentWatcher) trigger() {
	select {
	case dw.reloadChan <- struct{}{}:
	default:
	}
}

func (dw *DocumentWatcher) reloadLoop(ctx context.Context) {
	defer close(dw.done)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-dw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-dw.reloadChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(dw.debounceTime)
			fire = timer.C
		case <-fire:
			fire = nil
			dw.inspect(ctx)
		}
	}
}

// inspect reads the document once after a burst of events settles.
func (dw *DocumentWatcher) inspect(ctx context.Context) {
	// #nosec G304 -- path comes from service configuration
	data, err := os.ReadFile(dw.path)
	if err != nil {
		slog.Warn("Document unreadable after change", logfields.File(dw.path), logfields.Error(err))
		dw.recorder.SetDocumentValid(false)
		return
	}
	valid := json.Valid(data)
	dw.recorder.SetDocumentValid(valid)
	if !valid {
		slog.Warn("Document is not valid JSON; reads will fail until it is fixed", logfields.File(dw.path))
	}

	digest := store.Digest(data)
	dw.mu.Lock()
	unchanged := digest == dw.lastDigest
	dw.lastDigest = digest
	dw.mu.Unlock()
	if unchanged {
		return
	}

	slog.Info("Document changed outside the service", logfields.File(dw.path), logfields.Digest(digest), logfields.Size(len(data)))
	err = dw.publisher.ConfigChanged(ctx, notify.ChangeEvent{
		Source:        notify.SourceExternal,
		ContentSHA256: digest,
		SizeBytes:     len(data),
		Valid:         valid,
	})
	if err != nil {
		slog.Warn("Failed to publish external change", logfields.Error(err))
	}
}

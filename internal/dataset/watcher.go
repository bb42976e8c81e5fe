// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// INBOX WATCHER INTERFACE
// =============================================================================

// InboxWatcher is the interface for inbox watching implementations.
type InboxWatcher interface {
	// Watch starts watching the inbox for new files
	Watch() error

	// Close stops watching and releases resources
	Close() error
}

// Watch starts the inbox watcher (fsnotify or polling fallback). New
// JSON files dropped in the inbox are imported and then removed;
// unreadable files are quarantined with a .corrupt suffix.
func (ds *Dataset) Watch() error {
	if err := os.MkdirAll(ds.config.InboxDir, 0755); err != nil {
		return err
	}

	// Try fsnotify first
	fw, err := newFsnotifyInbox(ds, ds.config.WatchDebounce)
	if err == nil {
		if err := fw.Watch(); err == nil {
			ds.watcher = fw
			return nil
		}
		fw.Close()
	}

	// Fallback to polling watcher
	pw := newPollingInbox(ds, 5*time.Second)
	if err := pw.Watch(); err != nil {
		return err
	}

	ds.watcher = pw
	return nil
}

// consumeFile imports one inbox file, removing it on success and
// quarantining it on failure. A file that loses the race against a
// concurrent import is left in place and ErrImportInFlight is
// returned so the caller can retry it on a later pass.
func (ds *Dataset) consumeFile(path string) error {
	if !strings.HasSuffix(path, ".json") {
		return nil
	}
	_, err := ds.ImportFile(context.Background(), path)
	if errors.Is(err, ErrImportInFlight) {
		return err
	}
	if err != nil {
		quarantine(path)
		return nil
	}
	os.Remove(path)
	return nil
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// fsnotifyInbox implements InboxWatcher using fsnotify.
type fsnotifyInbox struct {
	ds       *Dataset
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	pending  map[string]time.Time // File path -> last change time
	ctx      context.Context
	cancel   context.CancelFunc
}

// newFsnotifyInbox creates a new fsnotify-based inbox watcher.
func newFsnotifyInbox(ds *Dataset, debounce time.Duration) (*fsnotifyInbox, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &fsnotifyInbox{
		ds:       ds,
		watcher:  watcher,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the inbox directory.
func (fw *fsnotifyInbox) Watch() error {
	if err := fw.watcher.Add(fw.ds.config.InboxDir); err != nil {
		return err
	}

	go fw.processEvents()
	go fw.processPending()

	return nil
}

// processEvents processes file system events.
func (fw *fsnotifyInbox) processEvents() {
	defer func() {
		// A panic here must not take down the process
		recover()
	}()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Writers may emit several Write events while the file is
			// still growing; debounce until it settles.
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				fw.mu.Lock()
				fw.pending[event.Name] = time.Now()
				fw.mu.Unlock()
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal
		}
	}
}

// processPending imports settled files after the debounce window.
func (fw *fsnotifyInbox) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			fw.mu.Lock()
			var toProcess []string
			for path, changeTime := range fw.pending {
				if now.Sub(changeTime) >= fw.debounce {
					toProcess = append(toProcess, path)
					delete(fw.pending, path)
				}
			}
			fw.mu.Unlock()

			for _, path := range toProcess {
				if err := fw.ds.consumeFile(path); errors.Is(err, ErrImportInFlight) {
					fw.mu.Lock()
					fw.pending[path] = time.Now()
					fw.mu.Unlock()
				}
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *fsnotifyInbox) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// pollingInbox implements InboxWatcher using periodic directory scans.
type pollingInbox struct {
	ds       *Dataset
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	seen     map[string]time.Time // File path -> mod time
	mu       sync.Mutex
}

// newPollingInbox creates a new polling-based inbox watcher.
func newPollingInbox(ds *Dataset, interval time.Duration) *pollingInbox {
	ctx, cancel := context.WithCancel(context.Background())

	return &pollingInbox{
		ds:       ds,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		seen:     make(map[string]time.Time),
	}
}

// Watch starts polling the inbox.
func (pw *pollingInbox) Watch() error {
	go pw.poll()
	return nil
}

// poll periodically scans the inbox for settled files.
func (pw *pollingInbox) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			pw.scan()
		}
	}
}

// scan imports files whose mod time has settled since the last pass.
func (pw *pollingInbox) scan() {
	entries, err := os.ReadDir(pw.ds.config.InboxDir)
	if err != nil {
		return
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(pw.ds.config.InboxDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		prev, ok := pw.seen[path]
		if !ok || !prev.Equal(info.ModTime()) {
			// First sighting or still changing; import next pass
			pw.seen[path] = info.ModTime()
			continue
		}

		if err := pw.ds.consumeFile(path); errors.Is(err, ErrImportInFlight) {
			// Keep the seen entry so the next pass retries it.
			continue
		}
		delete(pw.seen, path)
	}
}

// Close stops watching.
func (pw *pollingInbox) Close() error {
	pw.cancel()
	return nil
}

package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inferlab/logicgraph/pkg/logging"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeGraphFile ChangeType = iota
	ChangeTypeConfigFile
)

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a directory tree for graph document changes
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan ChangeEvent
	done    chan struct{}
	mu      sync.Mutex
}

// NewFileWatcher creates a new file system watcher rooted at a directory
func NewFileWatcher(root string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: watcher,
		root:    root,
		events:  make(chan ChangeEvent, 100),
		done:    make(chan struct{}),
	}

	return fw, nil
}

// Start begins watching for file changes
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watchGraphDirs(); err != nil {
		logging.Warn("failed to watch graph directories", "error", err)
	}

	logging.Info("started watching", "path", fw.root)

	// Process events
	go fw.processEvents(ctx)

	return nil
}

// watchGraphDirs finds and watches all directories containing graph documents
func (fw *FileWatcher) watchGraphDirs() error {
	graphDirs := make(map[string]bool)

	err := filepath.Walk(fw.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}

		// Skip hidden directories
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") && path != fw.root {
			return filepath.SkipDir
		}

		if !info.IsDir() && isGraphFile(info.Name()) {
			dir := filepath.Dir(path)
			graphDirs[dir] = true
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", fw.root, err)
	}

	// Watch the root even when no documents exist yet
	graphDirs[fw.root] = true

	for dir := range graphDirs {
		if err := fw.watcher.Add(dir); err != nil {
			logging.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}

	logging.Info("monitoring directories for graph documents", "count", len(graphDirs))
	return nil
}

func isGraphFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}

func isConfigFile(name string) bool {
	return strings.HasSuffix(name, ".toml")
}

// processEvents processes file system events and batches them by type
func (fw *FileWatcher) processEvents(ctx context.Context) {
	// Batch events to avoid sending one event per file
	var graphFiles []string
	var configFiles []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(graphFiles) > 0 {
			fw.events <- ChangeEvent{
				Type:      ChangeTypeGraphFile,
				Paths:     graphFiles,
				Timestamp: time.Now(),
			}
			graphFiles = nil
		}
		if len(configFiles) > 0 {
			fw.events <- ChangeEvent{
				Type:      ChangeTypeConfigFile,
				Paths:     configFiles,
				Timestamp: time.Now(),
			}
			configFiles = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			fw.watcher.Close()
			close(fw.events)
			close(fw.done)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Filter to only relevant file types
			name := filepath.Base(event.Name)

			if isGraphFile(name) {
				graphFiles = append(graphFiles, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			} else if isConfigFile(name) {
				configFiles = append(configFiles, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			}

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() error {
	close(fw.done)
	return fw.watcher.Close()
}

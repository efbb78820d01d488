package pricing

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

// FileWatcher reloads a pricing override file into a Table whenever the
// file changes on disk.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	table   *Table
	path    string
	done    chan struct{}
}

// WatchOverrides loads the override file once and then keeps the table in
// sync with further edits until Close is called.
func WatchOverrides(table *Table, path string) (*FileWatcher, error) {
	if err := table.LoadOverrides(path); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the file so the watch survives
	// editors that replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		table:   table,
		path:    path,
		done:    make(chan struct{}),
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(fw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := fw.table.LoadOverrides(fw.path); err != nil {
				util.LogWarn(fmt.Sprintf("Failed to reload pricing overrides: %v", err))
				continue
			}
			util.LogDebug(fmt.Sprintf("Reloaded pricing overrides from %s (%d entries)",
				fw.path, fw.table.OverrideCount()))
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogWarn(fmt.Sprintf("Pricing watcher error: %v", err))
		case <-fw.done:
			return
		}
	}
}

// Close stops watching the override file.
func (fw *FileWatcher) Close() error {
	close(fw.done)
	return fw.watcher.Close()
}

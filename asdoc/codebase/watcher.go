package codebase

import (
	"context"
	"os"
	"time"
)

// FileWatcher polls the descriptor file and rebuilds the codebase when it
// changes. Every change rebuilds the whole batch.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTime      time.Time
	size         int64

	// OnRebuild, when set, is called after every rebuild attempt.
	OnRebuild func(err error)
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan rebuilds when the descriptor file's modification time or size
// moved. It reports whether a rebuild was attempted.
func (w *FileWatcher) scan() bool {
	info, err := os.Stat(w.codebase.Input())
	if err != nil {
		log.Debugf("watch %s: %v", w.codebase.Input(), err)
		return false
	}
	if info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return false
	}
	w.modTime = info.ModTime()
	w.size = info.Size()

	err = w.codebase.Rebuild(context.Background())
	if err != nil {
		log.Warningf("%v", err)
	}
	if w.OnRebuild != nil {
		w.OnRebuild(err)
	}
	return true
}

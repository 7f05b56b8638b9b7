package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/retlint/internal/types"
	"github.com/gnoswap-labs/retlint/scanner"
)

// settleDelay lets bursts of writes to one file be linted once.
const settleDelay = 100 * time.Millisecond

// IsSourceFile reports whether path names a file the engine lints.
var IsSourceFile = scanner.IsSourceFile

// StartWatching lints source files under dirs again whenever they are written,
// passing the result to onIssues. Without a handler the issues are logged.
func (e *Engine) StartWatching(onIssues func(filename string, issues []tt.Issue), dirs ...string) error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.watching != nil {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.onIssues = onIssues
	e.watching = make(chan struct{})
	go e.watchLoop(watcher, e.watching)
	return nil
}

// StopWatching stops the watch loop started by StartWatching.
func (e *Engine) StopWatching() error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.watching == nil {
		return errors.New("not watching")
	}

	close(e.watching)
	e.watching = nil
	return e.watcher.Close()
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !IsSourceFile(event.Name) {
		return
	}

	time.Sleep(settleDelay)
	issues, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("error linting changed file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.reportIssues(event.Name, issues)
}

func (e *Engine) reportIssues(filename string, issues []tt.Issue) {
	if e.onIssues != nil {
		e.onIssues(filename, issues)
		return
	}

	if len(issues) == 0 {
		e.logger.Info("no issues found", zap.String("file", filename))
		return
	}

	e.logger.Info("issues found", zap.String("file", filename), zap.Int("count", len(issues)))
	for _, issue := range issues {
		e.logger.Info(issue.Message,
			zap.String("rule", issue.Rule),
			zap.String("code", issue.Code),
			zap.Int("line", issue.Start.Line))
	}
}

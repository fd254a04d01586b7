// File: watch.go
// Title: Settings File Watching
// Description: Reloads a settings file when it changes on disk. The parent
//              directory is watched so editors that replace the file by
//              rename are handled.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of file watching (polling)
// - 2026-10-17 v0.2.0: fsnotify based watcher with debouncing

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/modlevel/pkg/core/error"
)

// ChangeHandler receives freshly loaded settings, or the error that
// prevented loading them
type ChangeHandler func(settings *Settings, err error)

// DebounceInterval collapses bursts of events for one save into one reload
const DebounceInterval = 100 * time.Millisecond

// Watch starts watching filePath and calls handler after each change. It
// returns once the watcher is running; watching stops when ctx is done.
func Watch(ctx context.Context, filePath string, options LoadOptions, handler ChangeHandler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeIOError).
			WithOperation("config.Watch")
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "failed to resolve config path").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Watch").
			WithDetail("filePath", filePath)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeIOError).
			WithOperation("config.Watch").
			WithDetail("filePath", filePath)
	}

	go watchLoop(ctx, watcher, absPath, options, handler)
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, absPath string, options LoadOptions, handler ChangeHandler) {
	defer watcher.Close()

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(DebounceInterval)
			} else {
				debounce.Reset(DebounceInterval)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			handler(LoadWithOptions(absPath, options))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			handler(nil, mdwerror.Wrap(err, "watcher failed").
				WithCode(mdwerror.CodeIOError).
				WithOperation("config.Watch"))
		}
	}
}

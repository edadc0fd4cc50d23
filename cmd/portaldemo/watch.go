package main

import (
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/solarlune/portal3d"
)

// shaderWatcher reports shader files that changed on disk. Events arrive on fsnotify's goroutine; Changed is polled
// from the game loop, so reloads happen on the thread that draws.
type shaderWatcher struct {
	watcher *fsnotify.Watcher
	changed chan string
	files   []string
}

// watchShaders watches the given shader files (paths relative to dir) for writes.
func watchShaders(dir string, paths ...string) (*shaderWatcher, error) {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &shaderWatcher{
		watcher: watcher,
		changed: make(chan string, 16),
	}

	dirs := []string{}

	for _, path := range paths {
		full := filepath.Clean(filepath.Join(dir, path))
		sw.files = append(sw.files, full)
		if d := filepath.Dir(full); !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}

	// Editors often save by replacing the file, so the directories are watched rather than the files.
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go sw.run()

	return sw, nil

}

func (sw *shaderWatcher) run() {

	for {
		select {

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !slices.Contains(sw.files, name) {
				continue
			}
			select {
			case sw.changed <- name:
			default:
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			portal3d.Logger().Error("shader watcher", "err", err)

		}
	}

}

// Changed returns the shader files that changed since the last call, without duplicates.
func (sw *shaderWatcher) Changed() []string {
	var out []string
	for {
		select {
		case name := <-sw.changed:
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		default:
			return out
		}
	}
}

func (sw *shaderWatcher) Close() error {
	return sw.watcher.Close()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultWatchInterval is the poll interval for config file changes.
const DefaultWatchInterval = 2 * time.Second

// fileStamp records the attributes compared between polls. UnixNano keeps
// equality trivial.
type fileStamp struct {
	ModNano int64
	Size    int64
	Exists  bool
}

// Watcher polls the config file and reports which setting keys changed.
//
// The file is stat'ed on every Poll and only re-read when its modification
// time or size moved. A file that disappears or fails to parse keeps the
// last good settings.
type Watcher struct {
	Path string

	stamp    fileStamp
	settings Settings
	primed   bool
}

// NewWatcher starts watching path from the given baseline settings.
func NewWatcher(path string, baseline Settings) *Watcher {
	w := &Watcher{Path: path, settings: baseline}
	if stamp, err := statConfig(path); err == nil {
		w.stamp = stamp
		w.primed = true
	}
	return w
}

// Settings returns the last settings read successfully.
func (w *Watcher) Settings() Settings {
	return w.settings
}

// Poll checks the file once. It returns the changed keys, which is empty
// when nothing relevant changed.
func (w *Watcher) Poll() ([]string, error) {
	stamp, err := statConfig(w.Path)
	if err != nil {
		return nil, err
	}
	if w.primed && stamp == w.stamp {
		return nil, nil
	}
	w.stamp = stamp
	w.primed = true
	if !stamp.Exists {
		return nil, nil
	}

	cfg, err := LoadFrom(w.Path)
	if err != nil {
		return nil, fmt.Errorf("reload config %q: %w", w.Path, err)
	}
	changed := Diff(w.settings, cfg.Settings)
	w.settings = cfg.Settings
	if len(changed) > 0 {
		log.Info("settings changed", "path", w.Path, "keys", changed)
	}
	return changed, nil
}

func statConfig(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileStamp{}, nil
		}
		return fileStamp{}, fmt.Errorf("stat config %q: %w", path, err)
	}
	return fileStamp{ModNano: info.ModTime().UnixNano(), Size: info.Size(), Exists: true}, nil
}

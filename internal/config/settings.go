package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/treykane/notes-layout/internal/rules"
)

// Value returns the raw string value of a setting key.
func (s Settings) Value(key string) (string, error) {
	switch key {
	case rules.KeyDefaultLayout:
		return s.DefaultLayout, nil
	case rules.KeyEditorTags:
		return s.EditorTags, nil
	case rules.KeySplitTags:
		return s.SplitTags, nil
	case rules.KeyViewerTags:
		return s.ViewerTags, nil
	case rules.KeyRichtextTags:
		return s.RichtextTags, nil
	case rules.KeyPaneCycleBound:
		if s.PaneCycleBound == 0 {
			return "", nil
		}
		return strconv.Itoa(s.PaneCycleBound), nil
	}
	return "", fmt.Errorf("unknown setting %q", key)
}

// Diff returns the setting keys whose values differ between old and next.
func Diff(old, next Settings) []string {
	var changed []string
	for _, key := range rules.Keys {
		a, _ := old.Value(key)
		b, _ := next.Value(key)
		if a != b {
			changed = append(changed, key)
		}
	}
	return changed
}

// File serves settings from a config file, re-reading it on every call.
type File struct {
	Path string
}

// Value implements rules.Source.
func (f File) Value(_ context.Context, key string) (string, error) {
	cfg, err := LoadFrom(f.Path)
	if err != nil {
		return "", err
	}
	return cfg.Settings.Value(key)
}

// Snapshot implements rules.Snapshotter: the file is parsed once and the
// settings are served from memory.
func (f File) Snapshot(context.Context) (rules.Source, error) {
	cfg, err := LoadFrom(f.Path)
	if err != nil {
		return nil, err
	}
	return Static{Settings: cfg.Settings}, nil
}

// Static serves settings held in memory.
type Static struct {
	Settings Settings
}

// Value implements rules.Source.
func (s Static) Value(_ context.Context, key string) (string, error) {
	return s.Settings.Value(key)
}

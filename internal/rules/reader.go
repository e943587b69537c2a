package rules

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/logging"
)

// Setting keys read by Reader.
const (
	KeyDefaultLayout  = "defaultLayout"
	KeyEditorTags     = "editorTags"
	KeySplitTags      = "splitTags"
	KeyViewerTags     = "viewerTags"
	KeyRichtextTags   = "richtextTags"
	KeyPaneCycleBound = "paneCycleBound"
)

// Keys lists every setting key Reader understands.
var Keys = []string{
	KeyDefaultLayout,
	KeyEditorTags,
	KeySplitTags,
	KeyViewerTags,
	KeyRichtextTags,
	KeyPaneCycleBound,
}

var log = logging.New("rules")

// Source provides raw setting values.
type Source interface {
	Value(ctx context.Context, key string) (string, error)
}

// Snapshotter is a Source that can read every value at once. Refresh reads
// through a single snapshot so all keys come from the same version.
type Snapshotter interface {
	Snapshot(ctx context.Context) (Source, error)
}

// Reader caches the rule set and the convergence bound between settings
// change notifications.
type Reader struct {
	rules RuleSet
	bound int
}

// Rules returns the cached rule set.
func (r *Reader) Rules() RuleSet { return r.rules }

// PaneCycleBound returns the cached bound, or 0 when unset.
func (r *Reader) PaneCycleBound() int { return r.bound }

// Refresh re-reads the listed keys from src. Keys not listed keep their
// cached value; an empty list re-reads everything. Unknown keys are ignored.
//
// A read error aborts the refresh and leaves the cache untouched.
func (r *Reader) Refresh(ctx context.Context, src Source, keys []string) error {
	if len(keys) == 0 {
		keys = Keys
	}
	if snap, ok := src.(Snapshotter); ok {
		s, err := snap.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		src = s
	}
	next := r.rules
	bound := r.bound
	for _, key := range keys {
		if !slices.Contains(Keys, key) {
			continue
		}
		value, err := src.Value(ctx, key)
		if err != nil {
			return fmt.Errorf("read setting %q: %w", key, err)
		}
		switch key {
		case KeyDefaultLayout:
			k, err := layout.ParseKind(value)
			if err != nil {
				log.Warn("invalid default layout, using none", "value", value, "error", err)
				k = layout.None
			}
			next.Default = k
		case KeyEditorTags:
			next.Editor = ParseTagList(value)
		case KeySplitTags:
			next.Split = ParseTagList(value)
		case KeyViewerTags:
			next.Viewer = ParseTagList(value)
		case KeyRichtextTags:
			next.Richtext = ParseTagList(value)
		case KeyPaneCycleBound:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n <= 0 {
				if strings.TrimSpace(value) != "" {
					log.Warn("invalid pane cycle bound, using default", "value", value)
				}
				n = 0
			}
			bound = n
		}
	}
	r.rules = next
	r.bound = bound
	return nil
}

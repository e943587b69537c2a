// Package persist records the layout currently shown as layout tags on
// notes, replacing any conflicting layout tag.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/logging"
)

// ErrUnrecognizedLayout is returned when the observed UI state is not one
// of the concrete layouts and therefore has no tag.
var ErrUnrecognizedLayout = errors.New("current layout is not a recognized layout")

var log = logging.New("persist")

// Writer writes layout tags through a TagStore.
type Writer struct {
	Store host.TagStore
}

// Persist tags every document in documentIDs with the label of observed and
// detaches the labels of the other concrete layouts. The tag is created
// once if the store does not know it yet. Documents already carrying the
// label are not re-attached.
func (w *Writer) Persist(ctx context.Context, documentIDs []string, observed layout.Kind) error {
	sel := layout.Select(observed)
	if !sel.Concrete() {
		return ErrUnrecognizedLayout
	}
	if len(documentIDs) == 0 {
		return nil
	}

	all, err := host.CollectAll(ctx, w.Store.AllTags)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	var target *host.Tag
	for i := range all {
		if strings.EqualFold(all[i].Title, sel.Label()) {
			target = &all[i]
			break
		}
	}
	if target == nil {
		created, err := w.Store.CreateTag(ctx, sel.Label())
		if err != nil {
			return fmt.Errorf("create tag %s: %w", sel.Label(), err)
		}
		log.Info("created layout tag", "tag", created.Title, "id", created.ID)
		target = &created
	}

	for _, id := range documentIDs {
		if err := w.persistOne(ctx, id, observed, *target); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) persistOne(ctx context.Context, documentID string, observed layout.Kind, target host.Tag) error {
	tags, err := host.CollectAll(ctx, func(ctx context.Context, page int) (host.Page[host.Tag], error) {
		return w.Store.TagsOf(ctx, documentID, page)
	})
	if err != nil {
		return fmt.Errorf("list tags of %s: %w", documentID, err)
	}

	attached := false
	for _, tag := range tags {
		k, ok := layout.KindForLabel(tag.Title)
		if !ok {
			continue
		}
		if k == observed {
			attached = true
			continue
		}
		if err := w.Store.DetachTag(ctx, tag.ID, documentID); err != nil {
			return fmt.Errorf("detach %s from %s: %w", tag.Title, documentID, err)
		}
		log.Debug("detached layout tag", "note", documentID, "tag", tag.Title)
	}
	if attached {
		return nil
	}
	if err := w.Store.AttachTag(ctx, target.ID, documentID); err != nil {
		return fmt.Errorf("attach %s to %s: %w", target.Title, documentID, err)
	}
	log.Debug("attached layout tag", "note", documentID, "tag", target.Title)
	return nil
}

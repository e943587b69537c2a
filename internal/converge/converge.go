// Package converge drives a toggle-only editor UI into a target layout.
//
// The host exposes no setter for its layout. It offers two commands: one
// flips between the markdown and rich-text editors, the other cycles the
// visible panes through a fixed sequence of unknown length. Converger
// treats the pane cycle as an opaque state machine: it reads the visible
// panes, toggles, and reads again, up to a bound.
package converge

import (
	"context"
	"fmt"

	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/logging"
)

// DefaultMaxToggles bounds the pane toggles issued per Apply. The host's
// pane cycle has been observed to visit at most three configurations.
const DefaultMaxToggles = 3

var log = logging.New("converge")

// PaneUI is the slice of host UI state Converger reads and toggles.
type PaneUI interface {
	SourceViewEnabled(ctx context.Context) (bool, error)
	VisiblePanes(ctx context.Context) (layout.PaneSet, error)
	ToggleSourceView(ctx context.Context) error
	TogglePanes(ctx context.Context) error
}

// Result reports what Apply did.
type Result struct {
	// Converged is true when the observed state matched the target.
	Converged bool
	// SourceFlipped is true when the editor mode was toggled.
	SourceFlipped bool
	// Toggles counts pane toggle commands issued.
	Toggles int
}

// Converger applies layouts through a PaneUI.
type Converger struct {
	UI PaneUI
	// MaxToggles overrides DefaultMaxToggles when positive.
	MaxToggles int
}

func (c *Converger) maxToggles() int {
	if c.MaxToggles > 0 {
		return c.MaxToggles
	}
	return DefaultMaxToggles
}

// Apply brings the host UI to target.
//
// The editor mode is a binary toggle, so at most one flip is needed. Panes
// only matter in source view; they are toggled until the visible set equals
// the target's or the bound is reached. Reaching the bound is not an error:
// the host's cycle may not contain the target combination. Targets without
// a descriptor (None, Previous) are a no-op.
func (c *Converger) Apply(ctx context.Context, target layout.Selection) (Result, error) {
	var res Result
	if !target.Concrete() {
		return res, nil
	}

	sourceView, err := c.UI.SourceViewEnabled(ctx)
	if err != nil {
		return res, fmt.Errorf("read editor mode: %w", err)
	}
	if sourceView != target.SourceView() {
		if err := c.UI.ToggleSourceView(ctx); err != nil {
			return res, fmt.Errorf("toggle editor mode: %w", err)
		}
		res.SourceFlipped = true
	}

	if !target.SourceView() {
		res.Converged = true
		return res, nil
	}

	want := target.Panes()
	for i := 0; i < c.maxToggles(); i++ {
		panes, err := c.UI.VisiblePanes(ctx)
		if err != nil {
			return res, fmt.Errorf("read visible panes: %w", err)
		}
		if panes.Equal(want) {
			res.Converged = true
			return res, nil
		}
		if err := c.UI.TogglePanes(ctx); err != nil {
			return res, fmt.Errorf("toggle visible panes: %w", err)
		}
		res.Toggles++
	}

	panes, err := c.UI.VisiblePanes(ctx)
	if err != nil {
		return res, fmt.Errorf("read visible panes: %w", err)
	}
	if panes.Equal(want) {
		res.Converged = true
		return res, nil
	}
	log.Debug("pane cycle bound reached", "target", target.String(), "toggles", res.Toggles)
	return res, nil
}

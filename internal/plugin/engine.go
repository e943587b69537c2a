// Package plugin wires the layout packages to a host application.
//
// The host delivers two notifications, note selection changes and settings
// changes, one at a time. Engine handles each to completion before
// returning and is not safe for concurrent use: the host serializes calls.
// Host failures are logged and swallowed at the notification boundary so a
// failing event never blocks the next one.
package plugin

import (
	"context"
	"fmt"

	"github.com/treykane/notes-layout/internal/converge"
	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/logging"
	"github.com/treykane/notes-layout/internal/persist"
	"github.com/treykane/notes-layout/internal/resolver"
	"github.com/treykane/notes-layout/internal/rules"
)

var log = logging.New("plugin")

// UI is the host UI surface the engine drives.
type UI interface {
	converge.PaneUI
	ObservedLayout(ctx context.Context) (layout.Kind, error)
}

// Options configures an Engine.
type Options struct {
	Workspace host.Workspace
	Tags      host.TagStore
	UI        UI
	Settings  rules.Source
}

// Engine holds the state carried between notifications.
type Engine struct {
	workspace host.Workspace
	tags      host.TagStore
	ui        UI
	settings  rules.Source

	reader    rules.Reader
	state     resolver.State
	converger converge.Converger
	writer    persist.Writer
}

// Outcome describes how one selection change was handled.
type Outcome struct {
	DocumentID string
	Decision   resolver.Decision
	Result     converge.Result
}

// New returns an engine. Call Start before delivering notifications.
func New(opts Options) *Engine {
	return &Engine{
		workspace: opts.Workspace,
		tags:      opts.Tags,
		ui:        opts.UI,
		settings:  opts.Settings,
		converger: converge.Converger{UI: opts.UI},
		writer:    persist.Writer{Store: opts.Tags},
	}
}

// Start reads every setting once.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.reloadSettings(ctx, nil); err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	return nil
}

// Rules returns the rule set currently in effect.
func (e *Engine) Rules() rules.RuleSet { return e.reader.Rules() }

// State returns the resolution state carried between selections.
func (e *Engine) State() resolver.State { return e.state }

// OnSelectionChanged handles a note selection notification.
func (e *Engine) OnSelectionChanged(ctx context.Context) {
	out, err := e.HandleSelectionChanged(ctx)
	if err != nil {
		log.Error("apply layout", "note", out.DocumentID, "error", err)
		return
	}
	if out.Decision.Skipped {
		log.Debug("selection unchanged", "note", out.DocumentID)
		return
	}
	if out.Decision.Target != layout.None {
		log.Debug("applied layout",
			"note", out.DocumentID,
			"layout", out.Decision.Target.String(),
			"tagged", out.Decision.Matched,
			"converged", out.Result.Converged,
			"toggles", out.Result.Toggles)
	}
}

// HandleSelectionChanged resolves and applies the layout of the selected
// note and returns what it did. Errors are returned unlogged.
func (e *Engine) HandleSelectionChanged(ctx context.Context) (Outcome, error) {
	var out Outcome
	doc, err := e.workspace.SelectedDocument(ctx)
	if err != nil {
		return out, fmt.Errorf("selected note: %w", err)
	}
	if doc == nil {
		return out, nil
	}
	out.DocumentID = doc.ID
	if doc.ID == e.state.LastDocumentID {
		out.Decision.Skipped = true
		return out, nil
	}
	if e.reader.Rules().Empty() {
		e.state = e.state.Unresolved(doc.ID)
		return out, nil
	}

	tags, err := host.TagTitles(ctx, e.tags, doc.ID)
	if err != nil {
		return out, err
	}

	in := resolver.Input{DocumentID: doc.ID, Tags: tags}
	if e.state.NeedsObservation() {
		observed, err := e.ui.ObservedLayout(ctx)
		if err != nil {
			return out, fmt.Errorf("observe layout: %w", err)
		}
		in.Observed = observed
	}

	decision, next := resolver.Resolve(in, e.reader.Rules(), e.state)
	e.state = next
	out.Decision = decision
	if decision.Target == layout.None {
		return out, nil
	}

	res, err := e.converger.Apply(ctx, layout.Select(decision.Target))
	out.Result = res
	if err != nil {
		return out, fmt.Errorf("apply %s: %w", decision.Target, err)
	}
	return out, nil
}

// OnSettingsChanged re-reads the changed setting keys. An empty key list
// re-reads everything.
func (e *Engine) OnSettingsChanged(ctx context.Context, keys []string) {
	if err := e.reloadSettings(ctx, keys); err != nil {
		log.Error("reload settings", "keys", keys, "error", err)
	}
}

func (e *Engine) reloadSettings(ctx context.Context, keys []string) error {
	if err := e.reader.Refresh(ctx, e.settings, keys); err != nil {
		return err
	}
	e.converger.MaxToggles = e.reader.PaneCycleBound()
	return nil
}

// PersistCurrentLayout tags notes with the layout the UI currently shows.
// With no ids the host's current selection is used. It returns the layout
// written.
func (e *Engine) PersistCurrentLayout(ctx context.Context, documentIDs []string) (layout.Kind, error) {
	if len(documentIDs) == 0 {
		ids, err := e.workspace.SelectedDocumentIDs(ctx)
		if err != nil {
			return layout.None, fmt.Errorf("selected notes: %w", err)
		}
		documentIDs = ids
	}
	observed, err := e.ui.ObservedLayout(ctx)
	if err != nil {
		return layout.None, fmt.Errorf("observe layout: %w", err)
	}
	if err := e.writer.Persist(ctx, documentIDs, observed); err != nil {
		return observed, err
	}
	e.state = e.state.Tagged(documentIDs...)
	log.Info("persisted layout", "layout", observed.String(), "notes", len(documentIDs))
	return observed, nil
}

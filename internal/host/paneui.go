package host

import (
	"context"
	"fmt"

	"github.com/treykane/notes-layout/internal/layout"
)

// PaneUI adapts global settings and commands to the read/toggle view the
// convergence step works with. It does not cache anything.
type PaneUI struct {
	Settings GlobalSettings
	Commands Commands
}

// NewPaneUI returns a PaneUI over settings and commands.
func NewPaneUI(settings GlobalSettings, commands Commands) *PaneUI {
	return &PaneUI{Settings: settings, Commands: commands}
}

func (p *PaneUI) SourceViewEnabled(ctx context.Context) (bool, error) {
	v, err := p.Settings.GlobalValue(ctx, SettingSourceView)
	if err != nil {
		return false, err
	}
	enabled, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("setting %s: unexpected %T", SettingSourceView, v)
	}
	return enabled, nil
}

func (p *PaneUI) VisiblePanes(ctx context.Context) (layout.PaneSet, error) {
	v, err := p.Settings.GlobalValue(ctx, SettingVisiblePanes)
	if err != nil {
		return nil, err
	}
	switch panes := v.(type) {
	case []string:
		return layout.NewPaneSet(panes...), nil
	case []any:
		names := make([]string, 0, len(panes))
		for _, item := range panes {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("setting %s: unexpected item %T", SettingVisiblePanes, item)
			}
			names = append(names, name)
		}
		return layout.NewPaneSet(names...), nil
	case nil:
		return layout.NewPaneSet(), nil
	}
	return nil, fmt.Errorf("setting %s: unexpected %T", SettingVisiblePanes, v)
}

func (p *PaneUI) ToggleSourceView(ctx context.Context) error {
	return p.Commands.Execute(ctx, CommandToggleSourceView)
}

func (p *PaneUI) TogglePanes(ctx context.Context) error {
	return p.Commands.Execute(ctx, CommandTogglePanes)
}

// ObservedLayout reads the host state and maps it to a layout.
func (p *PaneUI) ObservedLayout(ctx context.Context) (layout.Kind, error) {
	sourceView, err := p.SourceViewEnabled(ctx)
	if err != nil {
		return layout.None, err
	}
	if !sourceView {
		return layout.Richtext, nil
	}
	panes, err := p.VisiblePanes(ctx)
	if err != nil {
		return layout.None, err
	}
	return layout.FromObservedState(sourceView, panes), nil
}

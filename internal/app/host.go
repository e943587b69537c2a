// host.go makes the Model the host application of the layout engine.
//
// The editor has no "set layout" operation. Like the desktop note apps it
// imitates, it offers a command that flips between the markdown editor and
// the rich-text view, and a command that cycles the visible panes through
// paneCycle. The engine reads the current state through GlobalValue.
package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/layout"
)

// paneCycle is the order toggleVisiblePanes walks through.
var paneCycle = [][]string{
	{layout.PaneEditor},
	{layout.PaneEditor, layout.PaneViewer},
	{layout.PaneViewer},
}

// editorState is the state behind editor.codeView and noteVisiblePanes.
type editorState struct {
	sourceView bool
	paneIndex  int
}

func newEditorState() editorState {
	return editorState{sourceView: true, paneIndex: 1}
}

func (s editorState) panes() []string {
	out := append([]string(nil), paneCycle[s.paneIndex]...)
	sort.Strings(out)
	return out
}

func (s editorState) showsPane(name string) bool {
	return layout.NewPaneSet(paneCycle[s.paneIndex]...).Has(name)
}

// SelectedDocument implements host.Workspace.
func (m *Model) SelectedDocument(context.Context) (*host.Document, error) {
	for _, doc := range m.docs {
		if doc.ID == m.selected {
			d := doc
			return &d, nil
		}
	}
	return nil, nil
}

// SelectedDocumentIDs returns the marked notes, or the current note when
// none are marked.
func (m *Model) SelectedDocumentIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.marked))
	for id, marked := range m.marked {
		if marked {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 && m.selected != "" {
		ids = append(ids, m.selected)
	}
	sort.Strings(ids)
	return ids, nil
}

// GlobalValue implements host.GlobalSettings.
func (m *Model) GlobalValue(_ context.Context, key string) (any, error) {
	switch key {
	case host.SettingSourceView:
		return m.editorState.sourceView, nil
	case host.SettingVisiblePanes:
		return m.editorState.panes(), nil
	}
	return nil, fmt.Errorf("unknown global setting %q", key)
}

// Execute implements host.Commands.
func (m *Model) Execute(_ context.Context, name string) error {
	switch name {
	case host.CommandToggleSourceView:
		m.editorState.sourceView = !m.editorState.sourceView
		if !m.editorState.sourceView && m.mode == modeEditNote {
			m.leaveEditMode()
		}
	case host.CommandTogglePanes:
		m.editorState.paneIndex = (m.editorState.paneIndex + 1) % len(paneCycle)
		if !m.editorState.showsPane(layout.PaneEditor) && m.mode == modeEditNote {
			m.leaveEditMode()
		}
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	m.applyLayout(m.calculateLayout())
	return nil
}

// observedLayoutName describes the current editor state for the status bar.
func (m *Model) observedLayoutName() string {
	k := layout.FromObservedState(m.editorState.sourceView, layout.NewPaneSet(m.editorState.panes()...))
	if k == layout.None {
		return "custom"
	}
	return k.String()
}

package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/persist"
)

// handleKey routes key presses by mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeEditNote {
		return m.handleEditNoteKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.adjustOffset()
			m.selectCursor()
		}
	case "down", "j":
		if m.cursor < len(m.docs)-1 {
			m.cursor++
			m.adjustOffset()
			m.selectCursor()
		}
	case "enter":
		m.selectCursor()
	case " ":
		if m.cursor < len(m.docs) {
			id := m.docs[m.cursor].ID
			m.marked[id] = !m.marked[id]
			if !m.marked[id] {
				delete(m.marked, id)
			}
		}
	case "ctrl+l", "l":
		m.runCommand(ctx, host.CommandTogglePanes)
	case "ctrl+t", "t":
		m.runCommand(ctx, host.CommandToggleSourceView)
	case "p":
		m.persistLayout(ctx)
	case "r":
		if err := m.reloadDocuments(); err != nil {
			m.setStatusError("Error refreshing notes", err)
			return m, nil
		}
		m.status = "Refreshed"
	case "e", "i":
		m.enterEditMode()
	}
	return m, nil
}

func (m *Model) handleEditNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveEdit()
		return m, nil
	case "esc":
		m.leaveEditMode()
		m.status = "Edit cancelled"
		return m, nil
	case "ctrl+l":
		m.runCommand(context.Background(), host.CommandTogglePanes)
		return m, nil
	case "ctrl+t":
		m.runCommand(context.Background(), host.CommandToggleSourceView)
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) runCommand(ctx context.Context, name string) {
	if err := m.Execute(ctx, name); err != nil {
		m.setStatusError("Command failed", err, "command", name)
		return
	}
	m.status = "Layout: " + m.observedLayoutName()
}

// persistLayout is the "persist current layout as tags" menu action.
func (m *Model) persistLayout(ctx context.Context) {
	k, err := m.engine.PersistCurrentLayout(ctx, nil)
	if err != nil {
		if errors.Is(err, persist.ErrUnrecognizedLayout) {
			m.status = "Current layout has no layout tag"
			return
		}
		m.setStatusError("Error saving layout tags", err)
		return
	}
	ids, _ := m.SelectedDocumentIDs(ctx)
	m.marked = map[string]bool{}
	if m.selected != "" {
		if err := m.loadNote(m.selected); err != nil {
			appLog.Warn("reload note after persist", "note", m.selected, "error", err)
		}
	}
	m.status = fmt.Sprintf("Tagged %d note(s) with layout %s", len(ids), k)
}

func (m *Model) enterEditMode() {
	if m.selected == "" {
		m.status = "No note selected"
		return
	}
	if !m.editorState.sourceView || !m.editorState.showsPane(paneEditorName) {
		m.status = "Editor pane is hidden (press l or t)"
		return
	}
	m.mode = modeEditNote
	m.editor.Focus()
	m.status = "Editing (ctrl+s to save, esc to cancel)"
}

func (m *Model) leaveEditMode() {
	m.mode = modeBrowse
	m.editor.Blur()
	m.editor.SetValue(m.content)
}

func (m *Model) saveEdit() {
	value := m.editor.Value()
	if err := m.store.Write(m.selected, value); err != nil {
		m.setStatusError("Error saving note", err, "note", m.selected)
		return
	}
	m.content = value
	m.leaveEditMode()
	if err := m.loadNote(m.selected); err != nil {
		appLog.Warn("reload note after save", "note", m.selected, "error", err)
	}
	m.status = "Saved"
}

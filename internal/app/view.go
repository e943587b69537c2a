package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/notes-layout/internal/layout"
)

// Pane names drawn in the editor area.
const (
	paneEditorName = layout.PaneEditor
	paneViewerName = layout.PaneViewer
	paneRichtext   = "richtext"
)

// View renders the full terminal screen.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	dims := m.calculateLayout()
	list := m.renderList(dims)
	area := m.renderArea(dims)
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, area)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m *Model) renderList(dims LayoutDimensions) string {
	inner := max(0, dims.ListWidth-paneStyle.GetHorizontalFrameSize())
	rows := []string{titleStyle.Render(truncate("Notes: "+filepath.Base(m.store.Root()), inner))}
	end := min(len(m.docs), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		doc := m.docs[i]
		prefix := "  "
		if m.marked[doc.ID] {
			prefix = markStyle.Render("* ")
		}
		line := truncate(prefix+doc.Title, inner)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		rows = append(rows, line)
	}
	if len(m.docs) == 0 {
		rows = append(rows, mutedStyle.Render(truncate("No notes", inner)))
	}
	height := max(0, dims.ContentHeight-paneStyle.GetVerticalFrameSize())
	return paneStyle.Render(padBlock(strings.Join(rows, "\n"), inner, height))
}

func (m *Model) renderArea(dims LayoutDimensions) string {
	panes := m.visiblePanes()
	if len(panes) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(panes))
	for i, name := range panes {
		inner := max(0, dims.PaneWidths[i]-paneStyle.GetHorizontalFrameSize())
		header := m.paneHeader(name, inner)
		var content string
		style := viewerPane
		switch name {
		case paneEditorName:
			content = m.editor.View()
			style = editorPane
		case paneViewerName:
			content = m.viewer.View()
		case paneRichtext:
			content = m.richtext.View()
			style = richtextPane
		}
		block := padBlock(header+"\n"+content, inner, dims.InnerHeight+PaneHeaderRows)
		rendered = append(rendered, style.Render(block))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// paneHeader shows the note title on the first pane and its tags.
func (m *Model) paneHeader(name string, width int) string {
	title := name
	for _, doc := range m.docs {
		if doc.ID == m.selected {
			title = doc.Title + " · " + name
			break
		}
	}
	header := titleStyle.Render(title)
	if name != paneViewerName || !m.editorState.showsPane(paneEditorName) {
		for _, tag := range m.tags {
			if _, ok := layout.KindForLabel(tag); ok {
				header += " " + layoutBadge.Render(tag)
			} else {
				header += " " + mutedStyle.Render("#"+tag)
			}
		}
	}
	return truncate(header, width)
}

func (m *Model) renderFooter() string {
	status := statusStyle.Render(m.status)
	help := "j/k move · space mark · l panes · t editor/rich text · p save layout · r refresh · e edit · q quit"
	if m.mode == modeEditNote {
		status = editStatus.Render(m.status)
		help = "ctrl+s save · esc cancel · ctrl+l panes · ctrl+t rich text"
	}
	if n := len(m.marked); n > 0 {
		status += " " + markStyle.Render(fmt.Sprintf("[%d marked]", n))
	}
	lines := []string{truncate(status, m.width), mutedStyle.Render(truncate(help, m.width))}
	return padBlock(strings.Join(lines, "\n"), m.width, FooterRows)
}

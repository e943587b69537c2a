// layout.go centralizes the terminal layout calculations.
//
// The UI is a horizontal split: a fixed-width note list on the left and the
// editor area on the right. In source view the editor area holds the
// visible panes side by side (editor, viewer or both); in rich-text view it
// holds a single rendered pane. All dimensions are computed once per resize
// or layout change and reused by View.
package app

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	ListWidth     int   // width of the note list (including border)
	AreaWidth     int   // width of the editor area
	ContentHeight int   // height available above the footer
	PaneWidths    []int // outer width of each visible pane, left to right
	InnerHeight   int   // usable rows inside a pane (after border and header)
}

// visiblePanes lists the panes drawn in the editor area, in order.
func (m *Model) visiblePanes() []string {
	if !m.editorState.sourceView {
		return []string{paneRichtext}
	}
	var panes []string
	for _, name := range []string{paneEditorName, paneViewerName} {
		if m.editorState.showsPane(name) {
			panes = append(panes, name)
		}
	}
	return panes
}

func (m *Model) calculateLayout() LayoutDimensions {
	listWidth := min(DefaultTreeWidth, m.width/TreeWidthDivider)
	areaWidth := max(0, m.width-listWidth)
	contentHeight := max(0, m.height-FooterRows)

	panes := m.visiblePanes()
	widths := make([]int, len(panes))
	if len(panes) > 0 {
		each := areaWidth / len(panes)
		for i := range widths {
			widths[i] = each
		}
		widths[len(widths)-1] += areaWidth - each*len(panes)
	}

	return LayoutDimensions{
		ListWidth:     listWidth,
		AreaWidth:     areaWidth,
		ContentHeight: contentHeight,
		PaneWidths:    widths,
		InnerHeight:   max(0, contentHeight-paneStyle.GetVerticalFrameSize()-PaneHeaderRows),
	}
}

// applyLayout resizes the widgets to the pane they are drawn in.
func (m *Model) applyLayout(dims LayoutDimensions) {
	for i, name := range m.visiblePanes() {
		inner := max(0, dims.PaneWidths[i]-paneStyle.GetHorizontalFrameSize())
		switch name {
		case paneEditorName:
			m.editor.SetWidth(inner)
			m.editor.SetHeight(dims.InnerHeight)
		case paneViewerName:
			m.viewer.Width = inner
			m.viewer.Height = dims.InnerHeight
		case paneRichtext:
			m.richtext.Width = inner
			m.richtext.Height = dims.InnerHeight
		}
	}
	m.refreshRendered()
}

// listHeight is the number of note rows the list can show.
func (m *Model) listHeight() int {
	return max(0, m.height-FooterRows-paneStyle.GetVerticalFrameSize()-1)
}

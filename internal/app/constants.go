package app

// Layout constants define the default dimensions and spacing for the UI
const (
	// DefaultTreeWidth is the maximum width allocated to the note list
	DefaultTreeWidth = 36

	// TreeWidthDivider determines list width as terminal_width / this value
	// when the terminal is narrow
	TreeWidthDivider = 3

	// FooterRows is the number of rows reserved for the status/help area.
	FooterRows = 2

	// PaneHeaderRows is the header line above each editor pane.
	PaneHeaderRows = 1
)

// Rendering constants
const (
	// RenderWidthBucket is the granularity for width-based render caching
	// Widths are rounded to nearest multiple of this value
	RenderWidthBucket = 20
)

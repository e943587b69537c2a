package layout

// Descriptor describes what a layout looks like in the host UI.
type Descriptor struct {
	// Label is the tag title that pins a note to this layout.
	Label string
	// SourceView is true when the markdown (code) editor is active.
	SourceView bool
	// Panes are the side panes visible while SourceView is true.
	Panes PaneSet
}

const (
	LabelNone     = "layout:none"
	LabelEditor   = "layout:editor"
	LabelSplit    = "layout:split"
	LabelViewer   = "layout:viewer"
	LabelRichtext = "layout:richtext"
)

// Pane names as reported by the host.
const (
	PaneEditor = "editor"
	PaneViewer = "viewer"
)

// catalog is indexed by Kind. Previous has no descriptor of its own.
var catalog = map[Kind]Descriptor{
	None:     {Label: LabelNone, SourceView: true, Panes: NewPaneSet()},
	Editor:   {Label: LabelEditor, SourceView: true, Panes: NewPaneSet(PaneEditor)},
	Split:    {Label: LabelSplit, SourceView: true, Panes: NewPaneSet(PaneEditor, PaneViewer)},
	Viewer:   {Label: LabelViewer, SourceView: true, Panes: NewPaneSet(PaneViewer)},
	Richtext: {Label: LabelRichtext, SourceView: false, Panes: NewPaneSet()},
}

// concrete lists the layouts that can be pinned by a tag, in rule
// evaluation order.
var concrete = [...]Kind{Editor, Split, Viewer, Richtext}

// Describe returns the descriptor of k. It reports false for Previous and
// for undeclared kinds.
func Describe(k Kind) (Descriptor, bool) {
	d, ok := catalog[k]
	return d, ok
}

// Concrete returns the taggable layouts in rule evaluation order.
func Concrete() []Kind {
	out := make([]Kind, len(concrete))
	copy(out, concrete[:])
	return out
}

// Labels returns the tag labels of all concrete layouts.
func Labels() []string {
	out := make([]string, 0, len(concrete))
	for _, k := range concrete {
		out = append(out, catalog[k].Label)
	}
	return out
}

// KindForLabel maps a layout tag label back to its kind. Matching is
// case-insensitive; "layout:none" is not a concrete label and yields false.
func KindForLabel(label string) (Kind, bool) {
	for _, k := range concrete {
		if equalFold(catalog[k].Label, label) {
			return k, true
		}
	}
	return None, false
}

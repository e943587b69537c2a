package layout

// Selection is the layout chosen for one selection-change event.
//
// It is built fresh per event. Set is the only mutation point and is used
// while rules are evaluated.
type Selection struct {
	kind Kind
}

// Select returns a Selection for k.
func Select(k Kind) Selection {
	return Selection{kind: k}
}

// Kind returns the selected kind.
func (s Selection) Kind() Kind { return s.kind }

// Set replaces the selected kind.
func (s *Selection) Set(k Kind) { s.kind = k }

// Recognized reports whether the selection names a layout at all. Only
// None and undeclared kinds are unrecognized; Previous is a valid choice
// that still has to be resolved before it can be applied.
func (s Selection) Recognized() bool {
	return s.kind.Valid() && s.kind != None
}

// Concrete reports whether the selection is one of the four layouts with
// panes and a tag label, the only ones that can be applied or persisted.
func (s Selection) Concrete() bool {
	_, ok := catalog[s.kind]
	return ok && s.kind != None
}

// Descriptor returns the catalog entry of the selected kind, or the None
// descriptor when the kind has none.
func (s Selection) Descriptor() Descriptor {
	if d, ok := catalog[s.kind]; ok {
		return d
	}
	return catalog[None]
}

// SourceView reports whether the selected layout uses the markdown editor.
func (s Selection) SourceView() bool { return s.Descriptor().SourceView }

// Panes returns the panes the selected layout shows.
func (s Selection) Panes() PaneSet { return s.Descriptor().Panes }

// Label returns the tag label of the selected layout.
func (s Selection) Label() string { return s.Descriptor().Label }

func (s Selection) String() string { return s.kind.String() }

// FromObservedState maps the host's current editor state to a layout.
//
// The source-view flag is checked first: None and Richtext share the empty
// pane set and are told apart only by it. Rendered mode is always Richtext;
// in source mode the pane set must match Editor, Split or Viewer exactly,
// otherwise the state is not a recognized layout and None is returned.
func FromObservedState(sourceView bool, panes PaneSet) Kind {
	if !sourceView {
		return Richtext
	}
	for _, k := range [...]Kind{Editor, Split, Viewer} {
		if catalog[k].Panes.Equal(panes) {
			return k
		}
	}
	return None
}

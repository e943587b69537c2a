package layout

import (
	"sort"
	"strings"
)

// PaneSet is an unordered set of pane names.
type PaneSet map[string]struct{}

// NewPaneSet builds a set from names. Blank names are ignored so a host
// reporting [""] for "no panes" yields the empty set.
func NewPaneSet(names ...string) PaneSet {
	set := make(PaneSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Equal reports set equality; order and duplicates are irrelevant.
func (s PaneSet) Equal(other PaneSet) bool {
	if len(s) != len(other) {
		return false
	}
	for name := range s {
		if _, ok := other[name]; !ok {
			return false
		}
	}
	return true
}

// Has reports whether name is in the set.
func (s PaneSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the pane names sorted.
func (s PaneSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s PaneSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

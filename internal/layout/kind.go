// Package layout describes the editor layouts the engine recognizes.
//
// A layout is a combination of the editor mode (markdown source or rich
// text) and the set of visible side panes. The set of layouts is closed and
// fixed at compile time: see [Describe] for the catalog and [Selection] for
// the value the resolver hands to the convergence step.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one of the recognized layouts.
type Kind int

const (
	// None means no managed layout: the UI is left untouched.
	None Kind = iota
	Editor
	Split
	Viewer
	// Richtext is the WYSIWYG editor (source view disabled).
	Richtext
	// Previous is resolved at evaluation time to the last remembered layout.
	Previous
)

var kindNames = [...]string{
	None:     "none",
	Editor:   "editor",
	Split:    "split",
	Viewer:   "viewer",
	Richtext: "richtext",
	Previous: "previous",
}

func (k Kind) String() string {
	if k < None || k > Previous {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= None && k <= Previous
}

// ParseKind converts a setting value to a Kind.
//
// Names are matched case-insensitively ("split view" and "rich text" are
// accepted as well). Numeric values 0..5 follow the order of the settings
// dialog. An empty value and the literal "default" both map to None.
func ParseKind(value string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "default", "none":
		return None, nil
	case "editor":
		return Editor, nil
	case "split", "split view", "splitview":
		return Split, nil
	case "viewer":
		return Viewer, nil
	case "richtext", "rich text", "wysiwyg":
		return Richtext, nil
	case "previous":
		return Previous, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		if k := Kind(n); k.Valid() {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown layout %q", value)
}

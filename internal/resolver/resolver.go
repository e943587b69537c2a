// Package resolver decides which layout a newly selected note should get.
//
// Resolution is a pure function of the note's tags, the rule set and a
// small State value carried between selection events. The caller owns the
// State and threads it through successive calls.
package resolver

import (
	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/rules"
)

// State is carried across selection-change events for the lifetime of the
// process. It is never persisted. The zero value is the startup state:
// no note seen yet and no layout remembered.
type State struct {
	// LastDocumentID is the id of the last resolved note.
	LastDocumentID string
	// LastLayout is the layout last observed on a note without layout
	// tags. It backs the Previous default.
	LastLayout layout.Kind
	// Remembered is false until LastLayout has been recorded once.
	Remembered bool

	lastUnmatched bool
}

// NeedsObservation reports whether the next Resolve call will record the
// observed UI layout. Callers can skip reading the host UI otherwise.
func (s State) NeedsObservation() bool {
	return s.LastDocumentID != "" && s.lastUnmatched
}

// Unresolved records documentID as the current note without resolving it.
// It counts as a note that matched no rule, so the layout shown on it is
// remembered on the next selection.
func (s State) Unresolved(documentID string) State {
	s.LastDocumentID = documentID
	s.lastUnmatched = true
	return s
}

// Tagged records that documentIDs now carry a layout tag. When the current
// note is among them its layout is no longer treated as picked by hand.
func (s State) Tagged(documentIDs ...string) State {
	for _, id := range documentIDs {
		if id != "" && id == s.LastDocumentID {
			s.lastUnmatched = false
		}
	}
	return s
}

// Input describes one selection-change event.
type Input struct {
	DocumentID string
	Tags       []string
	// Observed is the layout currently shown by the host, read before the
	// new note's layout is applied. It still reflects the previous note.
	Observed layout.Kind
}

// Decision is the outcome of Resolve.
type Decision struct {
	// Target is the layout to converge to. None means leave the UI alone.
	Target layout.Kind
	// Matched is true when a tag rule selected Target.
	Matched bool
	// Skipped is true for a repeated notification of the same note.
	Skipped bool
}

// Resolve picks the target layout for in and returns the next state.
//
// Rules are evaluated Editor, Split, Viewer, Richtext and the first match
// wins. Without a match the rule set's default applies, Previous being
// replaced by the remembered layout (None when nothing was remembered).
//
// Before choosing, the layout observed on the previous note is remembered
// when that note matched no rule: it is the layout the user picked by hand.
func Resolve(in Input, rs rules.RuleSet, st State) (Decision, State) {
	if in.DocumentID != "" && in.DocumentID == st.LastDocumentID {
		return Decision{Skipped: true}, st
	}

	next := st
	if st.NeedsObservation() && in.Observed != layout.None {
		next.LastLayout = in.Observed
		next.Remembered = true
	}

	sel := layout.Select(layout.None)
	matched := false
	if k, ok := rs.Match(in.Tags); ok {
		sel.Set(k)
		matched = true
	} else {
		sel.Set(rs.Default)
		if sel.Kind() == layout.Previous {
			if next.Remembered {
				sel.Set(next.LastLayout)
			} else {
				sel.Set(layout.None)
			}
		}
	}

	next.LastDocumentID = in.DocumentID
	next.lastUnmatched = !matched
	return Decision{Target: sel.Kind(), Matched: matched}, next
}

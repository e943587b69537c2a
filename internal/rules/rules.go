// Package rules maps note tags to layouts.
package rules

import (
	"strings"

	"github.com/treykane/notes-layout/internal/layout"
)

// TagSet is a set of lower-cased tag names.
type TagSet map[string]struct{}

// ParseTagList parses a comma-separated setting value. Entries are trimmed
// and lower-cased; blanks are dropped. An empty value yields an empty set,
// which matches nothing.
func ParseTagList(value string) TagSet {
	set := TagSet{}
	for _, part := range strings.Split(value, ",") {
		tag := normalizeTag(part)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

// Intersects reports whether any of tags is in the set.
func (s TagSet) Intersects(tags []string) bool {
	if len(s) == 0 {
		return false
	}
	for _, tag := range tags {
		if _, ok := s[normalizeTag(tag)]; ok {
			return true
		}
	}
	return false
}

// RuleSet is the per-install tag configuration.
type RuleSet struct {
	Editor   TagSet
	Split    TagSet
	Viewer   TagSet
	Richtext TagSet
	// Default applies to notes no rule matches. It may be None or Previous.
	Default layout.Kind
}

// ForKind returns the tag list configured for a concrete layout.
func (rs RuleSet) ForKind(k layout.Kind) TagSet {
	switch k {
	case layout.Editor:
		return rs.Editor
	case layout.Split:
		return rs.Split
	case layout.Viewer:
		return rs.Viewer
	case layout.Richtext:
		return rs.Richtext
	}
	return nil
}

// Match returns the first layout whose tag list intersects tags. Rules are
// evaluated Editor, Split, Viewer, Richtext; a note carrying tags of several
// lists resolves to the earliest one.
func (rs RuleSet) Match(tags []string) (layout.Kind, bool) {
	for _, k := range layout.Concrete() {
		if rs.ForKind(k).Intersects(tags) {
			return k, true
		}
	}
	return layout.None, false
}

// Empty reports whether the rule set can never change a layout.
func (rs RuleSet) Empty() bool {
	return len(rs.Editor) == 0 && len(rs.Split) == 0 && len(rs.Viewer) == 0 &&
		len(rs.Richtext) == 0 && rs.Default == layout.None
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

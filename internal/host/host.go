// Package host declares the capabilities the layout engine consumes from
// the note-taking application: note selection, tags, global UI settings and
// UI commands. Implementations live in the workspace, joplin and app
// packages.
package host

import (
	"context"
)

// Global setting keys holding the current editor state.
const (
	SettingSourceView   = "editor.codeView"
	SettingVisiblePanes = "noteVisiblePanes"
)

// Commands understood by Commands.Execute.
const (
	// CommandToggleSourceView flips between the markdown and rich-text editors.
	CommandToggleSourceView = "toggleEditors"
	// CommandTogglePanes cycles the visible editor panes.
	CommandTogglePanes = "toggleVisiblePanes"
)

// Document is a note as seen by the engine.
type Document struct {
	ID    string
	Title string
}

// Tag is a tag known to the store.
type Tag struct {
	ID    string
	Title string
}

// Workspace reports the user's note selection.
type Workspace interface {
	// SelectedDocument returns the focused note, or nil when none is.
	SelectedDocument(ctx context.Context) (*Document, error)
	// SelectedDocumentIDs returns every selected note id.
	SelectedDocumentIDs(ctx context.Context) ([]string, error)
}

// TagStore reads and writes tags. Listing calls are paginated; pages start
// at 1. Use CollectAll to assemble a full list.
type TagStore interface {
	TagsOf(ctx context.Context, documentID string, page int) (Page[Tag], error)
	AllTags(ctx context.Context, page int) (Page[Tag], error)
	CreateTag(ctx context.Context, title string) (Tag, error)
	AttachTag(ctx context.Context, tagID, documentID string) error
	DetachTag(ctx context.Context, tagID, documentID string) error
}

// GlobalSettings reads application-wide settings.
type GlobalSettings interface {
	GlobalValue(ctx context.Context, key string) (any, error)
}

// Commands executes named UI commands.
type Commands interface {
	Execute(ctx context.Context, name string) error
}

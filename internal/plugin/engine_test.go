package plugin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/treykane/notes-layout/internal/config"
	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/rules"
)

var paneCycle = [][]string{{"editor"}, {"editor", "viewer"}, {"viewer"}}

// fakeHost is an in-memory note application with a toggle-only editor.
type fakeHost struct {
	selected string
	noteTags map[string][]string
	tagIDs   map[string]string

	sourceView bool
	panePos    int
	commands   []string

	tagsErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{noteTags: map[string][]string{}, tagIDs: map[string]string{}, sourceView: true}
}

func (h *fakeHost) SelectedDocument(context.Context) (*host.Document, error) {
	if h.selected == "" {
		return nil, nil
	}
	return &host.Document{ID: h.selected}, nil
}

func (h *fakeHost) SelectedDocumentIDs(context.Context) ([]string, error) {
	return []string{h.selected}, nil
}

func (h *fakeHost) tag(title string) host.Tag {
	id, ok := h.tagIDs[title]
	if !ok {
		id = fmt.Sprintf("tag-%d", len(h.tagIDs)+1)
		h.tagIDs[title] = id
	}
	return host.Tag{ID: id, Title: title}
}

func (h *fakeHost) TagsOf(_ context.Context, id string, page int) (host.Page[host.Tag], error) {
	if h.tagsErr != nil {
		return host.Page[host.Tag]{}, h.tagsErr
	}
	var tags []host.Tag
	for _, title := range h.noteTags[id] {
		tags = append(tags, h.tag(title))
	}
	return host.Paginate(tags, page, 1), nil
}

func (h *fakeHost) AllTags(_ context.Context, page int) (host.Page[host.Tag], error) {
	var tags []host.Tag
	for title, id := range h.tagIDs {
		tags = append(tags, host.Tag{ID: id, Title: title})
	}
	return host.Paginate(tags, page, 0), nil
}

func (h *fakeHost) CreateTag(_ context.Context, title string) (host.Tag, error) {
	return h.tag(title), nil
}

func (h *fakeHost) titleOf(tagID string) string {
	for title, id := range h.tagIDs {
		if id == tagID {
			return title
		}
	}
	return ""
}

func (h *fakeHost) AttachTag(_ context.Context, tagID, doc string) error {
	h.noteTags[doc] = append(h.noteTags[doc], h.titleOf(tagID))
	return nil
}

func (h *fakeHost) DetachTag(_ context.Context, tagID, doc string) error {
	title := h.titleOf(tagID)
	kept := h.noteTags[doc][:0]
	for _, t := range h.noteTags[doc] {
		if t != title {
			kept = append(kept, t)
		}
	}
	h.noteTags[doc] = kept
	return nil
}

func (h *fakeHost) GlobalValue(_ context.Context, key string) (any, error) {
	switch key {
	case host.SettingSourceView:
		return h.sourceView, nil
	case host.SettingVisiblePanes:
		return paneCycle[h.panePos], nil
	}
	return nil, fmt.Errorf("unknown setting %s", key)
}

func (h *fakeHost) Execute(_ context.Context, name string) error {
	h.commands = append(h.commands, name)
	switch name {
	case host.CommandToggleSourceView:
		h.sourceView = !h.sourceView
	case host.CommandTogglePanes:
		h.panePos = (h.panePos + 1) % len(paneCycle)
	}
	return nil
}

func newEngine(t *testing.T, h *fakeHost, settings config.Settings) *Engine {
	t.Helper()
	e := New(Options{
		Workspace: h,
		Tags:      h,
		UI:        host.NewPaneUI(h, h),
		Settings:  config.Static{Settings: settings},
	})
	require.NoError(t, e.Start(context.Background()))
	return e
}

func TestSelectionAppliesTaggedLayout(t *testing.T) {
	h := newFakeHost()
	h.noteTags["n1"] = []string{"work", layout.LabelSplit}
	h.selected = "n1"
	e := newEngine(t, h, config.DefaultSettings())

	out, err := e.HandleSelectionChanged(context.Background())
	require.NoError(t, err)
	require.Equal(t, layout.Split, out.Decision.Target)
	require.True(t, out.Result.Converged)
	require.Equal(t, []string{host.CommandTogglePanes}, h.commands)
}

func TestDuplicateSelectionIssuesNoCommands(t *testing.T) {
	h := newFakeHost()
	h.noteTags["n1"] = []string{layout.LabelViewer}
	h.selected = "n1"
	e := newEngine(t, h, config.DefaultSettings())

	e.OnSelectionChanged(context.Background())
	issued := len(h.commands)
	require.Positive(t, issued)

	h.panePos = 0 // the user changed the panes by hand
	out, err := e.HandleSelectionChanged(context.Background())
	require.NoError(t, err)
	require.True(t, out.Decision.Skipped)
	require.Len(t, h.commands, issued)
}

func TestRichtextTagFlipsEditorMode(t *testing.T) {
	h := newFakeHost()
	h.noteTags["memo"] = []string{"Layout:RichText"}
	h.selected = "memo"
	e := newEngine(t, h, config.DefaultSettings())

	e.OnSelectionChanged(context.Background())
	require.False(t, h.sourceView)
	require.Equal(t, []string{host.CommandToggleSourceView}, h.commands)
}

func TestPreviousDefaultRestoresManualLayout(t *testing.T) {
	h := newFakeHost()
	settings := config.DefaultSettings()
	settings.DefaultLayout = "previous"
	h.noteTags["tagged"] = []string{layout.LabelEditor}
	e := newEngine(t, h, settings)
	ctx := context.Background()

	h.selected = "plain"
	out, err := e.HandleSelectionChanged(ctx)
	require.NoError(t, err)
	require.Equal(t, layout.None, out.Decision.Target)
	require.Empty(t, h.commands)

	// The user picks the viewer on the untagged note.
	h.panePos = 2
	h.selected = "tagged"
	out, err = e.HandleSelectionChanged(ctx)
	require.NoError(t, err)
	require.Equal(t, layout.Editor, out.Decision.Target)
	require.Equal(t, 0, h.panePos)

	h.selected = "other"
	out, err = e.HandleSelectionChanged(ctx)
	require.NoError(t, err)
	require.Equal(t, layout.Viewer, out.Decision.Target)
	require.Equal(t, 2, h.panePos)
}

func TestHostErrorIsSwallowedAndLeavesUIAlone(t *testing.T) {
	h := newFakeHost()
	h.noteTags["n1"] = []string{layout.LabelSplit}
	h.selected = "n1"
	h.tagsErr = errors.New("database is locked")
	e := newEngine(t, h, config.DefaultSettings())

	_, err := e.HandleSelectionChanged(context.Background())
	require.ErrorIs(t, err, h.tagsErr)
	e.OnSelectionChanged(context.Background())
	require.Empty(t, h.commands)

	h.tagsErr = nil
	e.OnSelectionChanged(context.Background())
	require.Equal(t, 1, h.panePos)
}

func TestSettingsChangeAppliesToNextSelection(t *testing.T) {
	h := newFakeHost()
	h.noteTags["n1"] = []string{"reading"}
	h.selected = "n1"
	source := &config.Static{Settings: config.DefaultSettings()}
	e := New(Options{Workspace: h, Tags: h, UI: host.NewPaneUI(h, h), Settings: source})
	require.NoError(t, e.Start(context.Background()))

	e.OnSelectionChanged(context.Background())
	require.Empty(t, h.commands)

	source.Settings.ViewerTags = "reading"
	source.Settings.SplitTags = "ignored"
	e.OnSettingsChanged(context.Background(), []string{rules.KeyViewerTags})
	require.False(t, e.Rules().Split.Intersects([]string{"ignored"}))

	h.selected = "n2"
	e.OnSelectionChanged(context.Background())
	h.selected = "n1"
	e.OnSelectionChanged(context.Background())
	require.Equal(t, 2, h.panePos)
}

func TestPersistCurrentLayout(t *testing.T) {
	h := newFakeHost()
	h.noteTags["n1"] = []string{layout.LabelSplit, "work"}
	h.selected = "n1"
	e := newEngine(t, h, config.DefaultSettings())

	k, err := e.PersistCurrentLayout(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, layout.Editor, k)
	require.ElementsMatch(t, []string{"work", layout.LabelEditor}, h.noteTags["n1"])
}

func TestPersistRichtextWhenRenderedEditorActive(t *testing.T) {
	h := newFakeHost()
	h.sourceView = false
	e := newEngine(t, h, config.DefaultSettings())

	k, err := e.PersistCurrentLayout(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, layout.Richtext, k)
	require.Equal(t, []string{layout.LabelRichtext}, h.noteTags["b"])
}

func TestPreviousRemembersNoteSelectedWhileRulesWereEmpty(t *testing.T) {
	h := newFakeHost()
	source := &config.Static{}
	e := New(Options{Workspace: h, Tags: h, UI: host.NewPaneUI(h, h), Settings: source})
	ctx := context.Background()
	require.NoError(t, e.Start(ctx))
	require.True(t, e.Rules().Empty())

	h.selected = "plain"
	e.OnSelectionChanged(ctx)
	require.Empty(t, h.commands)
	h.panePos = 2

	source.Settings.DefaultLayout = "previous"
	e.OnSettingsChanged(ctx, []string{rules.KeyDefaultLayout})

	h.selected = "other"
	out, err := e.HandleSelectionChanged(ctx)
	require.NoError(t, err)
	require.Equal(t, layout.Viewer, out.Decision.Target)
}

func TestPersistedNoteLayoutIsNotRemembered(t *testing.T) {
	h := newFakeHost()
	settings := config.DefaultSettings()
	settings.DefaultLayout = "previous"
	e := newEngine(t, h, settings)
	ctx := context.Background()

	h.selected = "plain"
	e.OnSelectionChanged(ctx)
	h.panePos = 2
	k, err := e.PersistCurrentLayout(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, layout.Viewer, k)

	// Back to the editor by hand; the note now carries layout:viewer.
	h.panePos = 0
	h.selected = "other"
	out, err := e.HandleSelectionChanged(ctx)
	require.NoError(t, err)
	require.Equal(t, layout.None, out.Decision.Target)
	require.Empty(t, h.commands)
}

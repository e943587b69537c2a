package app

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/notes-layout/internal/config"
	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/workspace"
)

func newTestModel(t *testing.T, notes map[string]string) (*Model, *workspace.Store) {
	t.Helper()
	root := t.TempDir()
	for name, content := range notes {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	store, err := workspace.Open(root)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	m, err := New(Options{Store: store, Settings: config.Static{Settings: config.DefaultSettings()}})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, store
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func globalPanes(t *testing.T, m *Model) []string {
	t.Helper()
	v, err := m.GlobalValue(context.Background(), host.SettingVisiblePanes)
	if err != nil {
		t.Fatalf("global value: %v", err)
	}
	return v.([]string)
}

func TestExecuteCyclesPanes(t *testing.T) {
	m, _ := newTestModel(t, nil)
	ctx := context.Background()

	want := [][]string{{"viewer"}, {"editor"}, {"editor", "viewer"}}
	for i, panes := range want {
		if err := m.Execute(ctx, host.CommandTogglePanes); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if got := globalPanes(t, m); !reflect.DeepEqual(got, panes) {
			t.Fatalf("toggle %d: got %v, want %v", i, got, panes)
		}
	}

	if err := m.Execute(ctx, host.CommandToggleSourceView); err != nil {
		t.Fatalf("toggle source view: %v", err)
	}
	v, err := m.GlobalValue(ctx, host.SettingSourceView)
	if err != nil {
		t.Fatalf("global value: %v", err)
	}
	if v != false {
		t.Fatalf("source view: got %v, want false", v)
	}

	if err := m.Execute(ctx, "deleteNote"); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if _, err := m.GlobalValue(ctx, "editor.fontSize"); err == nil {
		t.Fatal("expected error for unknown setting")
	}
}

func TestSelectingTaggedNotesConvergesLayout(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"a.md": "---\ntags: [layout:viewer]\n---\n# A\n",
		"b.md": "---\ntags: [layout:richtext]\n---\n# B\n",
		"c.md": "---\ntags: [layout:editor]\n---\n# C\n",
	})
	m.Init()

	if !m.editorState.sourceView || !reflect.DeepEqual(globalPanes(t, m), []string{"viewer"}) {
		t.Fatalf("a.md: got %+v, want viewer only", m.editorState)
	}

	m.Update(keyMsg("j"))
	if m.editorState.sourceView {
		t.Fatal("b.md: expected rich text view")
	}
	if m.observedLayoutName() != "richtext" {
		t.Fatalf("b.md: observed %s", m.observedLayoutName())
	}

	m.Update(keyMsg("j"))
	if !m.editorState.sourceView || !reflect.DeepEqual(globalPanes(t, m), []string{"editor"}) {
		t.Fatalf("c.md: got %+v, want editor only", m.editorState)
	}
}

func TestReselectingSameNoteKeepsManualLayout(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"a.md": "---\ntags: [layout:viewer]\n---\n# A\n",
	})
	m.Init()

	m.Update(keyMsg("l"))
	before := m.editorState
	m.Update(keyMsg("enter"))
	if m.editorState != before {
		t.Fatalf("repeated selection changed layout: got %+v, want %+v", m.editorState, before)
	}
}

func TestPersistKeyTagsNote(t *testing.T) {
	m, store := newTestModel(t, map[string]string{
		"a.md": "# A\n",
	})
	m.Init()

	// Untagged notes keep the startup split layout; one toggle shows the
	// viewer only.
	m.Update(keyMsg("l"))
	m.Update(keyMsg("p"))

	tags, err := store.Tags("a.md")
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"layout:viewer"}) {
		t.Fatalf("tags: got %v, want [layout:viewer]", tags)
	}
	if !strings.Contains(m.status, "viewer") {
		t.Fatalf("status: %q", m.status)
	}
}

func TestPersistKeyTagsMarkedNotes(t *testing.T) {
	m, store := newTestModel(t, map[string]string{
		"a.md": "---\ntags: [layout:split]\n---\n",
		"b.md": "---\ntags: [work]\n---\n",
	})
	m.Init()

	m.Update(keyMsg(" "))
	m.Update(keyMsg("j"))
	m.Update(keyMsg(" "))
	m.Update(keyMsg("t"))
	m.Update(keyMsg("p"))

	for id, want := range map[string][]string{
		"a.md": {"layout:richtext"},
		"b.md": {"work", "layout:richtext"},
	} {
		tags, err := store.Tags(id)
		if err != nil {
			t.Fatalf("tags %s: %v", id, err)
		}
		if !reflect.DeepEqual(tags, want) {
			t.Fatalf("tags %s: got %v, want %v", id, tags, want)
		}
	}
	if len(m.marked) != 0 {
		t.Fatalf("marks not cleared: %v", m.marked)
	}
}

func TestEditAndSave(t *testing.T) {
	m, store := newTestModel(t, map[string]string{"a.md": "# A\n"})
	m.Init()

	m.Update(keyMsg("e"))
	if m.mode != modeEditNote {
		t.Fatal("expected edit mode")
	}
	m.editor.SetValue("# A\n\nmore\n")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.mode != modeBrowse {
		t.Fatal("expected browse mode after save")
	}
	content, err := store.Read("a.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if content != "# A\n\nmore\n" {
		t.Fatalf("content: %q", content)
	}
}

func TestTogglingEditorAwayLeavesEditMode(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a.md": "# A\n"})
	m.Init()

	m.Update(keyMsg("e"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.mode != modeBrowse {
		t.Fatal("expected browse mode after switching to rich text")
	}
}

func TestViewShowsNotesAndLayoutBadge(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"a.md": "---\ntitle: Alpha\ntags: [layout:split, work]\n---\nhello\n",
	})
	m.Init()

	view := m.View()
	for _, want := range []string{"Notes", "Alpha", "layout:split", "#work", "q quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != m.height {
		t.Fatalf("view height: got %d, want %d", lines, m.height)
	}
}

func TestSettingsTickReloadsRules(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("---\ntags: [focus]\n---\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	writeConfig := func(viewerTags string) {
		t.Helper()
		cfg := `{"notes_dir": "` + root + `", "settings": {"viewerTags": "` + viewerTags + `"}}`
		if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	writeConfig("layout:viewer")
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	store, err := workspace.Open(root)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	m, err := New(Options{
		Store:    store,
		Settings: config.File{Path: cfgPath},
		Watcher:  config.NewWatcher(cfgPath, cfg.Settings),
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if m.engine.Rules().Viewer.Intersects([]string{"focus"}) {
		t.Fatal("focus should not be a viewer tag yet")
	}

	writeConfig("layout:viewer, focus")
	_, cmd := m.Update(settingsTickMsg{})
	if cmd == nil {
		t.Fatal("expected the tick to be rescheduled")
	}
	if !m.engine.Rules().Viewer.Intersects([]string{"focus"}) {
		t.Fatal("focus should be a viewer tag after reload")
	}
	if m.status != "Settings reloaded" {
		t.Fatalf("status: %q", m.status)
	}
}

func TestViewerHidesCRLFFrontmatter(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"a.md": "---\r\ntitle: T\r\ntags: [layout:split]\r\n---\r\nbody text\r\n",
	})
	m.Init()

	if !reflect.DeepEqual(globalPanes(t, m), []string{"editor", "viewer"}) {
		t.Fatalf("panes: got %v, want split", globalPanes(t, m))
	}
	viewer := m.viewer.View()
	if !strings.Contains(viewer, "body text") {
		t.Fatalf("viewer missing body:\n%s", viewer)
	}
	if strings.Contains(viewer, "title: T") || strings.Contains(viewer, "tags:") {
		t.Fatalf("frontmatter leaked into viewer:\n%s", viewer)
	}
}

package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/notes-layout/internal/config"
	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/plugin"
	"github.com/treykane/notes-layout/internal/rules"
	"github.com/treykane/notes-layout/internal/workspace"
)

// mode controls which widget receives keys.
type mode int

const (
	modeBrowse mode = iota
	modeEditNote
)

// Options configures the terminal host.
type Options struct {
	Store *workspace.Store
	// Settings feeds the layout rules.
	Settings rules.Source
	// Watcher, when set, is polled for settings changes.
	Watcher *config.Watcher
}

// Model holds the Bubble Tea state for the entire UI. It is also the host
// the layout engine drives: it reports the selected note, exposes the
// editor state as global settings and executes the two toggle commands.
type Model struct {
	store   *workspace.Store
	engine  *plugin.Engine
	watcher *config.Watcher

	// Note list state
	docs     []host.Document
	marked   map[string]bool
	cursor   int
	offset   int
	selected string
	content  string
	body     string
	tags     []string

	// Editor state exposed to the engine
	editorState editorState

	// UI widgets
	editor   textarea.Model
	viewer   viewport.Model
	richtext viewport.Model
	mode     mode
	status   string

	// Layout sizing
	width  int
	height int

	renderCache map[string]renderCacheEntry
}

// New prepares the initial UI model and starts the layout engine.
func New(opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("notes store is required")
	}

	editor := textarea.New()
	editor.Placeholder = "Your note content here..."
	editor.CharLimit = 0
	applyEditorTheme(&editor)

	viewer := viewport.New(0, 0)
	viewer.SetContent("Select a note to view")
	richtext := viewport.New(0, 0)

	m := &Model{
		store:       opts.Store,
		watcher:     opts.Watcher,
		marked:      map[string]bool{},
		editorState: newEditorState(),
		editor:      editor,
		viewer:      viewer,
		richtext:    richtext,
		mode:        modeBrowse,
		status:      "Ready",
		renderCache: map[string]renderCacheEntry{},
	}
	m.engine = plugin.New(plugin.Options{
		Workspace: m,
		Tags:      opts.Store,
		UI:        host.NewPaneUI(m, m),
		Settings:  opts.Settings,
	})
	if err := m.engine.Start(context.Background()); err != nil {
		return nil, err
	}
	if err := m.reloadDocuments(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init selects the first note and starts the settings watcher.
func (m *Model) Init() tea.Cmd {
	if len(m.docs) > 0 && m.selected == "" {
		m.selectCursor()
	}
	return m.scheduleSettingsTick()
}

// Update is the Bubble Tea update loop: handle events and emit commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout(m.calculateLayout())
		m.refreshRendered()
		m.adjustOffset()
		return m, nil
	case settingsTickMsg:
		return m.handleSettingsTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeEditNote {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reloadDocuments re-reads the note list and keeps the cursor on the
// selected note when it still exists.
func (m *Model) reloadDocuments() error {
	docs, err := m.store.Documents()
	if err != nil {
		return err
	}
	m.docs = docs
	m.cursor = 0
	for i, doc := range docs {
		if doc.ID == m.selected {
			m.cursor = i
			break
		}
	}
	m.adjustOffset()
	return nil
}

// selectCursor makes the note under the cursor current and notifies the
// layout engine.
func (m *Model) selectCursor() {
	if m.cursor < 0 || m.cursor >= len(m.docs) {
		return
	}
	id := m.docs[m.cursor].ID
	if id != m.selected {
		if err := m.loadNote(id); err != nil {
			m.setStatusError("Error reading note", err, "note", id)
			return
		}
		m.selected = id
	}
	m.engine.OnSelectionChanged(context.Background())
	m.status = "Layout: " + m.observedLayoutName()
}

func (m *Model) loadNote(id string) error {
	content, err := m.store.Read(id)
	if err != nil {
		return err
	}
	tags, err := m.store.Tags(id)
	if err != nil {
		appLog.Warn("read note tags", "note", id, "error", err)
	}
	body, err := m.store.Body(id)
	if err != nil {
		appLog.Warn("parse note frontmatter", "note", id, "error", err)
		body = content
	}
	m.content = content
	m.body = body
	m.tags = tags
	m.editor.SetValue(content)
	m.refreshRendered()
	return nil
}

func (m *Model) adjustOffset() {
	visible := max(1, m.listHeight())
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(0, m.offset)
}

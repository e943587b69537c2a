// render.go renders the viewer and rich-text panes with Glamour.
//
// Completed renders are cached per note, keyed by the raw content and the
// width bucket, so toggling panes back and forth does not re-render.
// Glamour TermRenderer instances are cached per width bucket in an LRU
// bounded by maxRendererCacheEntries. The style comes from the
// NOTES_LAYOUT_GLAMOUR_STYLE or GLAMOUR_STYLE environment variable,
// defaulting to "dark".
package app

import (
	"container/list"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// renderCacheEntry stores a completed render alongside its inputs.
type renderCacheEntry struct {
	raw     string
	width   int
	content string
}

var (
	maxRendererCacheEntries = 8

	rendererCacheMu    sync.Mutex
	rendererCache      = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
)

// refreshRendered updates the viewer and rich-text viewports for the
// current note.
func (m *Model) refreshRendered() {
	if m.selected == "" && m.body == "" {
		return
	}
	body := m.body
	if m.viewer.Width > 0 {
		m.viewer.SetContent(m.renderCached(m.selected+"#viewer", body, m.viewer.Width))
	}
	if m.richtext.Width > 0 {
		m.richtext.SetContent(m.renderCached(m.selected+"#richtext", body, m.richtext.Width))
	}
}

func (m *Model) renderCached(key, raw string, width int) string {
	bucket := roundWidthToNearestBucket(width)
	if entry, ok := m.renderCache[key]; ok && entry.raw == raw && entry.width == bucket {
		return entry.content
	}
	out := renderMarkdown(raw, bucket)
	m.renderCache[key] = renderCacheEntry{raw: raw, width: bucket, content: out}
	return out
}

// renderMarkdown converts markdown to ANSI output. If the renderer fails,
// the raw markdown is returned so the user still sees content.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(width)
	if err != nil {
		appLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		appLog.Error("render markdown content", "width", width, "error", err)
		return content
	}
	return out
}

func getRenderer(width int) (*glamour.TermRenderer, error) {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[width]; ok {
		if node, ok := rendererCacheNodes[width]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[width] = renderer
	rendererCacheNodes[width] = rendererCacheOrder.PushBack(width)
	for rendererCacheOrder.Len() > maxRendererCacheEntries {
		oldest := rendererCacheOrder.Front()
		w := oldest.Value.(int)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCacheNodes, w)
		delete(rendererCache, w)
	}
	return renderer, nil
}

func glamourStyle() string {
	for _, env := range []string{"NOTES_LAYOUT_GLAMOUR_STYLE", "GLAMOUR_STYLE"} {
		if style := strings.TrimSpace(os.Getenv(env)); style != "" {
			return style
		}
	}
	return "dark"
}

// roundWidthToNearestBucket rounds width to a multiple of RenderWidthBucket,
// never below one bucket.
func roundWidthToNearestBucket(width int) int {
	if width <= RenderWidthBucket {
		return max(width, 1)
	}
	return ((width + RenderWidthBucket/2) / RenderWidthBucket) * RenderWidthBucket
}

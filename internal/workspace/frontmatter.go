package workspace

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// noteFile is a parsed markdown note. The frontmatter is kept as a YAML
// node tree so rewriting tags preserves every other key.
type noteFile struct {
	front *yaml.Node // mapping node, nil without frontmatter
	body  string
}

// parseNote splits content into frontmatter and body. Content without a
// leading "---" block is all body.
func parseNote(content string) (noteFile, error) {
	trimmed := strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(trimmed, frontmatterDelim+"\n") && !strings.HasPrefix(trimmed, frontmatterDelim+"\r\n") {
		return noteFile{body: content}, nil
	}

	lines := strings.Split(trimmed, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			end = i
			break
		}
	}
	if end <= 0 {
		return noteFile{body: content}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &doc); err != nil {
		return noteFile{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	note := noteFile{body: strings.Join(lines[end+1:], "\n")}
	switch {
	case doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode:
		note.front = doc.Content[0]
	case doc.Kind == 0:
		// empty frontmatter block
		note.front = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	default:
		return noteFile{}, fmt.Errorf("parse frontmatter: expected a mapping")
	}
	return note, nil
}

func (n noteFile) value(key string) *yaml.Node {
	if n.front == nil {
		return nil
	}
	for i := 0; i+1 < len(n.front.Content); i += 2 {
		if strings.EqualFold(n.front.Content[i].Value, key) {
			return n.front.Content[i+1]
		}
	}
	return nil
}

// title returns the frontmatter title, if any.
func (n noteFile) title() string {
	if v := n.value("title"); v != nil && v.Kind == yaml.ScalarNode {
		return strings.TrimSpace(v.Value)
	}
	return ""
}

// tags accepts a YAML list or a comma-separated scalar.
func (n noteFile) tags() []string {
	v := n.value("tags")
	if v == nil {
		return nil
	}
	switch v.Kind {
	case yaml.SequenceNode:
		values := make([]string, 0, len(v.Content))
		for _, item := range v.Content {
			values = append(values, item.Value)
		}
		return normalizeTagList(values)
	case yaml.ScalarNode:
		value := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v.Value), "["), "]")
		return normalizeTagList(strings.Split(value, ","))
	}
	return nil
}

// setTags replaces the tag list, adding frontmatter when the note had none.
func (n *noteFile) setTags(tags []string) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, tag := range tags {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag})
	}
	if n.front == nil {
		n.front = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	for i := 0; i+1 < len(n.front.Content); i += 2 {
		if strings.EqualFold(n.front.Content[i].Value, "tags") {
			n.front.Content[i+1] = seq
			return
		}
	}
	n.front.Content = append(n.front.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "tags"},
		seq,
	)
}

// render serializes the note back to markdown.
func (n noteFile) render() (string, error) {
	if n.front == nil {
		return n.body, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n.front); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	return frontmatterDelim + "\n" + buf.String() + frontmatterDelim + "\n" + n.body, nil
}

func normalizeTagList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		tag := normalizeTag(value)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeTag(value string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(value), `"'`))
}

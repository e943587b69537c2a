// Package workspace is a note store backed by a directory of markdown files.
//
// Every *.md file below the root is a note; its id is the slash-separated
// path relative to the root. Tags live in the note's YAML frontmatter. Tag
// ids are name-based UUIDs of the lower-cased title, so the same title maps
// to the same id across runs without a database. Tags created before any
// note carries them are kept in <root>/.notes-layout/tags.json.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/logging"
)

// ErrNotFound is returned for unknown note or tag ids.
var ErrNotFound = errors.New("not found")

// DefaultPageSize is the listing page size.
const DefaultPageSize = 50

const (
	managedDirName = ".notes-layout"
	filePermission = 0o644
)

// tagNamespace seeds the name-based tag ids.
var tagNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/treykane/notes-layout/tags"))

var log = logging.New("workspace")

// Store implements host.TagStore over a notes directory.
type Store struct {
	root     string
	PageSize int
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{root: abs, PageSize: DefaultPageSize}, nil
}

// Root returns the notes directory.
func (s *Store) Root() string { return s.root }

// TagID returns the id of a tag title.
func TagID(title string) string {
	return uuid.NewSHA1(tagNamespace, []byte(normalizeTag(title))).String()
}

// Documents lists every note sorted by id.
func (s *Store) Documents() ([]host.Document, error) {
	var docs []host.Document
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(rel)
		note, err := s.readNote(id)
		if err != nil {
			log.Warn("read note", "note", id, "error", err)
		}
		docs = append(docs, documentFor(id, note))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk notes dir %q: %w", s.root, err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Note returns the id and title of a note.
func (s *Store) Note(_ context.Context, id string) (host.Document, error) {
	note, err := s.readNote(id)
	if err != nil {
		return host.Document{}, err
	}
	return documentFor(id, note), nil
}

// documentFor titles a note by its frontmatter title, else its file name.
func documentFor(id string, note noteFile) host.Document {
	title := note.title()
	if title == "" {
		name := path.Base(id)
		title = strings.TrimSuffix(name, path.Ext(name))
	}
	return host.Document{ID: id, Title: title}
}

// Read returns the raw content of a note.
func (s *Store) Read(id string) (string, error) {
	path, err := s.notePath(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("note %s: %w", id, ErrNotFound)
		}
		return "", err
	}
	return string(data), nil
}

// Write replaces the raw content of a note.
func (s *Store) Write(id, content string) error {
	path, err := s.notePath(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), filePermission)
}

// Body returns a note without its frontmatter.
func (s *Store) Body(id string) (string, error) {
	note, err := s.readNote(id)
	if err != nil {
		return "", err
	}
	return note.body, nil
}

// Tags returns the normalized tag titles of a note.
func (s *Store) Tags(id string) ([]string, error) {
	note, err := s.readNote(id)
	if err != nil {
		return nil, err
	}
	return note.tags(), nil
}

func (s *Store) TagsOf(_ context.Context, documentID string, page int) (host.Page[host.Tag], error) {
	titles, err := s.Tags(documentID)
	if err != nil {
		return host.Page[host.Tag]{}, err
	}
	return host.Paginate(toTags(titles), page, s.PageSize), nil
}

func (s *Store) AllTags(_ context.Context, page int) (host.Page[host.Tag], error) {
	titles, err := s.allTitles()
	if err != nil {
		return host.Page[host.Tag]{}, err
	}
	return host.Paginate(toTags(titles), page, s.PageSize), nil
}

func (s *Store) CreateTag(_ context.Context, title string) (host.Tag, error) {
	title = normalizeTag(title)
	if title == "" {
		return host.Tag{}, errors.New("tag title is required")
	}
	reg, err := loadRegistry(s.root)
	if err != nil {
		return host.Tag{}, err
	}
	if reg.add(title) {
		if err := reg.save(s.root); err != nil {
			return host.Tag{}, err
		}
	}
	return host.Tag{ID: TagID(title), Title: title}, nil
}

func (s *Store) AttachTag(ctx context.Context, tagID, documentID string) error {
	title, err := s.titleForID(tagID)
	if err != nil {
		return err
	}
	return s.updateTags(documentID, func(tags []string) []string {
		for _, tag := range tags {
			if tag == title {
				return tags
			}
		}
		return append(tags, title)
	})
}

func (s *Store) DetachTag(_ context.Context, tagID, documentID string) error {
	return s.updateTags(documentID, func(tags []string) []string {
		kept := make([]string, 0, len(tags))
		for _, tag := range tags {
			if TagID(tag) != tagID {
				kept = append(kept, tag)
			}
		}
		return kept
	})
}

func (s *Store) updateTags(documentID string, update func([]string) []string) error {
	note, err := s.readNote(documentID)
	if err != nil {
		return err
	}
	before := note.tags()
	after := update(append([]string(nil), before...))
	if equalTags(before, after) {
		return nil
	}
	note.setTags(after)
	content, err := note.render()
	if err != nil {
		return err
	}
	if err := s.Write(documentID, content); err != nil {
		return fmt.Errorf("write note %s: %w", documentID, err)
	}
	log.Debug("updated note tags", "note", documentID, "tags", after)
	return nil
}

func (s *Store) titleForID(tagID string) (string, error) {
	titles, err := s.allTitles()
	if err != nil {
		return "", err
	}
	for _, title := range titles {
		if TagID(title) == tagID {
			return title, nil
		}
	}
	return "", fmt.Errorf("tag %s: %w", tagID, ErrNotFound)
}

// allTitles merges registered tags with the tags found in notes.
func (s *Store) allTitles() ([]string, error) {
	reg, err := loadRegistry(s.root)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, title := range reg.Tags {
		seen[title] = true
	}
	docs, err := s.Documents()
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		tags, err := s.Tags(doc.ID)
		if err != nil {
			log.Warn("skip unreadable note", "note", doc.ID, "error", err)
			continue
		}
		for _, tag := range tags {
			seen[tag] = true
		}
	}
	titles := make([]string, 0, len(seen))
	for title := range seen {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, nil
}

func (s *Store) readNote(id string) (noteFile, error) {
	content, err := s.Read(id)
	if err != nil {
		return noteFile{}, err
	}
	note, err := parseNote(content)
	if err != nil {
		return noteFile{}, fmt.Errorf("note %s: %w", id, err)
	}
	return note, nil
}

// notePath maps an id to a file inside the root, rejecting ids that
// escape it.
func (s *Store) notePath(id string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(id))
	if rel == "." || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	return filepath.Join(s.root, rel), nil
}

func toTags(titles []string) []host.Tag {
	tags := make([]host.Tag, 0, len(titles))
	for _, title := range titles {
		tags = append(tags, host.Tag{ID: TagID(title), Title: title})
	}
	return tags
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

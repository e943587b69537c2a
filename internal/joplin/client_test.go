package joplin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/persist"
)

// fakeAPI is a minimal Data API server holding tags and note/tag links.
type fakeAPI struct {
	mu       sync.Mutex
	tags     []item
	links    map[string][]string // note id -> tag ids
	pageSize int
	requests []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{links: map[string][]string{}, pageSize: 1}
}

func (f *fakeAPI) title(id string) string {
	for _, t := range f.tags {
		if t.ID == id {
			return t.Title
		}
	}
	return ""
}

func (f *fakeAPI) page(w http.ResponseWriter, r *http.Request, items []item) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	p := host.Paginate(items, page, f.pageSize)
	_ = json.NewEncoder(w).Encode(listResponse{Items: p.Items, HasMore: p.HasMore})
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	if r.URL.Query().Get("token") != "secret" {
		http.Error(w, `{"error":"Invalid token"}`, http.StatusForbidden)
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "tags":
		f.page(w, r, f.tags)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "notes" && parts[2] == "tags":
		var items []item
		for _, id := range f.links[parts[1]] {
			items = append(items, item{ID: id, Title: f.title(id)})
		}
		f.page(w, r, items)
	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "notes":
		if parts[1] != "n1" {
			http.Error(w, `{"error":"Not Found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(item{ID: "n1", Title: "First"})
	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "tags":
		var body struct{ Title string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		t := item{ID: "tag" + strconv.Itoa(len(f.tags)+1), Title: body.Title}
		f.tags = append(f.tags, t)
		_ = json.NewEncoder(w).Encode(t)
	case r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "notes":
		var body struct{ ID string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.links[body.ID] = append(f.links[body.ID], parts[1])
		_, _ = w.Write([]byte("{}"))
	case r.Method == http.MethodDelete && len(parts) == 4:
		kept := f.links[parts[3]][:0]
		for _, id := range f.links[parts[3]] {
			if id != parts[1] {
				kept = append(kept, id)
			}
		}
		f.links[parts[3]] = kept
	default:
		http.Error(w, `{"error":"bad route"}`, http.StatusBadRequest)
	}
}

func TestTagsOfFollowsPagination(t *testing.T) {
	api := newFakeAPI()
	api.tags = []item{{ID: "a", Title: "work"}, {ID: "b", Title: "layout:split"}, {ID: "c", Title: "x"}}
	api.links["n1"] = []string{"a", "b", "c"}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c := New(srv.URL, "secret")
	titles, err := host.TagTitles(context.Background(), c, "n1")
	if err != nil {
		t.Fatalf("tag titles: %v", err)
	}
	if strings.Join(titles, ",") != "work,layout:split,x" {
		t.Fatalf("unexpected titles %v", titles)
	}
	if len(api.requests) != 3 {
		t.Fatalf("expected 3 page requests, got %v", api.requests)
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(newFakeAPI())
	defer srv.Close()

	_, err := New(srv.URL, "wrong").AllTags(context.Background(), 1)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNote(t *testing.T) {
	srv := httptest.NewServer(newFakeAPI())
	defer srv.Close()
	c := New(srv.URL+"/", "secret")

	doc, err := c.Note(context.Background(), "n1")
	if err != nil {
		t.Fatalf("note: %v", err)
	}
	if doc.Title != "First" {
		t.Fatalf("unexpected note %#v", doc)
	}
	if _, err := c.Note(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistThroughDataAPI(t *testing.T) {
	api := newFakeAPI()
	api.tags = []item{{ID: "s", Title: layout.LabelSplit}, {ID: "w", Title: "work"}}
	api.links["n1"] = []string{"w", "s"}
	srv := httptest.NewServer(api)
	defer srv.Close()

	w := persist.Writer{Store: New(srv.URL, "secret")}
	if err := w.Persist(context.Background(), []string{"n1"}, layout.Editor); err != nil {
		t.Fatalf("persist: %v", err)
	}

	var titles []string
	for _, id := range api.links["n1"] {
		titles = append(titles, api.title(id))
	}
	if strings.Join(titles, ",") != "work,layout:editor" {
		t.Fatalf("unexpected note tags %v", titles)
	}
	if len(api.tags) != 3 {
		t.Fatalf("expected layout:editor to be created once, got %v", api.tags)
	}
}

// Package joplin talks to the Joplin Data API (the clipper service) and
// exposes its tags through host.TagStore.
package joplin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/logging"
)

// DefaultURL is the clipper service address of a desktop install.
const DefaultURL = "http://localhost:41184"

var (
	// ErrUnauthorized is returned when the API rejects the token.
	ErrUnauthorized = errors.New("joplin: invalid or missing token")
	// ErrNotFound is returned for unknown notes and tags.
	ErrNotFound = errors.New("joplin: not found")
)

var log = logging.New("joplin")

// Client is a Data API client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the service at baseURL.
func New(baseURL, token string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listResponse struct {
	Items   []item `json:"items"`
	HasMore bool   `json:"has_more"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Note returns the id and title of a note.
func (c *Client) Note(ctx context.Context, id string) (host.Document, error) {
	var it item
	q := url.Values{"fields": {"id,title"}}
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), q, nil, &it); err != nil {
		return host.Document{}, err
	}
	return host.Document{ID: it.ID, Title: it.Title}, nil
}

func (c *Client) TagsOf(ctx context.Context, documentID string, page int) (host.Page[host.Tag], error) {
	return c.list(ctx, "/notes/"+url.PathEscape(documentID)+"/tags", page)
}

func (c *Client) AllTags(ctx context.Context, page int) (host.Page[host.Tag], error) {
	return c.list(ctx, "/tags", page)
}

func (c *Client) CreateTag(ctx context.Context, title string) (host.Tag, error) {
	var it item
	if err := c.do(ctx, http.MethodPost, "/tags", nil, map[string]string{"title": title}, &it); err != nil {
		return host.Tag{}, err
	}
	log.Debug("created tag", "title", it.Title, "id", it.ID)
	return host.Tag{ID: it.ID, Title: it.Title}, nil
}

func (c *Client) AttachTag(ctx context.Context, tagID, documentID string) error {
	return c.do(ctx, http.MethodPost, "/tags/"+url.PathEscape(tagID)+"/notes", nil, map[string]string{"id": documentID}, nil)
}

func (c *Client) DetachTag(ctx context.Context, tagID, documentID string) error {
	return c.do(ctx, http.MethodDelete, "/tags/"+url.PathEscape(tagID)+"/notes/"+url.PathEscape(documentID), nil, nil, nil)
}

func (c *Client) list(ctx context.Context, path string, page int) (host.Page[host.Tag], error) {
	q := url.Values{
		"fields":    {"id,title"},
		"order_by":  {"title"},
		"order_dir": {"ASC"},
		"page":      {strconv.Itoa(page)},
	}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, q, nil, &resp); err != nil {
		return host.Page[host.Tag]{}, err
	}
	tags := make([]host.Tag, 0, len(resp.Items))
	for _, it := range resp.Items {
		tags = append(tags, host.Tag{ID: it.ID, Title: it.Title})
	}
	return host.Page[host.Tag]{Items: tags, HasMore: resp.HasMore}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.token)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 300:
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

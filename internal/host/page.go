package host

import (
	"context"
	"fmt"
)

// MaxPages stops CollectAll from following a store that keeps reporting
// more pages.
const MaxPages = 10000

// Page is one page of a listing.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// PageFunc fetches a single page.
type PageFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// CollectAll follows pagination from page 1 until the store reports no
// more pages and returns every item in order.
func CollectAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var out []T
	for page := 1; page <= MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		out = append(out, resp.Items...)
		if !resp.HasMore {
			return out, nil
		}
	}
	return nil, fmt.Errorf("listing exceeds %d pages", MaxPages)
}

// Paginate slices items into the given 1-based page. Stores that keep
// everything in memory use it to honor the paginated contract.
func Paginate[T any](items []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		return Page[T]{Items: items}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return Page[T]{}
	}
	end := min(start+size, len(items))
	return Page[T]{Items: items[start:end], HasMore: end < len(items)}
}

// TagTitles lists every tag of a document and returns the titles.
func TagTitles(ctx context.Context, store TagStore, documentID string) ([]string, error) {
	tags, err := CollectAll(ctx, func(ctx context.Context, page int) (Page[Tag], error) {
		return store.TagsOf(ctx, documentID, page)
	})
	if err != nil {
		return nil, fmt.Errorf("list tags of %s: %w", documentID, err)
	}
	titles := make([]string, 0, len(tags))
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}
	return titles, nil
}

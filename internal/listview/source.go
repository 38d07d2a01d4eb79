package listview

import "context"

// Request is one page query against a remote list.
type Request struct {
	Entity   string
	Page     int
	PageSize int
	Tag      string
}

// Page is one page of results plus the unpaginated total.
type Page[T any] struct {
	TotalCount int
	Items      []T
}

// Source fetches pages of T. Implementations return typed errors and never retry.
type Source[T any] interface {
	FetchPage(ctx context.Context, req Request) (Page[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, req Request) (Page[T], error)

func (f SourceFunc[T]) FetchPage(ctx context.Context, req Request) (Page[T], error) {
	return f(ctx, req)
}

// Slice pages through an in-memory list, honoring an optional tag matcher.
func Slice[T any](all []T, req Request, match func(item T, tag string) bool) Page[T] {
	filtered := all
	if req.Tag != "" && match != nil {
		filtered = make([]T, 0, len(all))
		for _, it := range all {
			if match(it, req.Tag) {
				filtered = append(filtered, it)
			}
		}
	}
	size := req.PageSize
	if size <= 0 {
		size = len(filtered)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(filtered) {
		return Page[T]{TotalCount: len(filtered), Items: []T{}}
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	items := make([]T, end-start)
	copy(items, filtered[start:end])
	return Page[T]{TotalCount: len(filtered), Items: items}
}

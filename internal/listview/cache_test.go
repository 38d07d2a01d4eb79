package listview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachedSourceMemoizesUntilExpiry(t *testing.T) {
	calls := 0
	src := SourceFunc[int](func(ctx context.Context, req Request) (Page[int], error) {
		calls++
		return Page[int]{TotalCount: 1, Items: []int{req.Page}}, nil
	})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCached[int](src, time.Minute)
	c.now = func() time.Time { return now }

	req := Request{Entity: "projects", Page: 1, PageSize: 3}
	_, err := c.FetchPage(context.Background(), req)
	require.NoError(t, err)
	page, err := c.FetchPage(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []int{1}, page.Items)
	require.Equal(t, 1, calls)

	page.Items[0] = 99
	again, _ := c.FetchPage(context.Background(), req)
	require.Equal(t, []int{1}, again.Items)

	now = now.Add(2 * time.Minute)
	_, _ = c.FetchPage(context.Background(), req)
	require.Equal(t, 2, calls)

	c.Invalidate()
	_, _ = c.FetchPage(context.Background(), req)
	require.Equal(t, 3, calls)
}

func TestCachedSourceSkipsErrors(t *testing.T) {
	calls := 0
	src := SourceFunc[int](func(ctx context.Context, req Request) (Page[int], error) {
		calls++
		return Page[int]{}, errors.New("boom")
	})
	c := NewCached[int](src, time.Minute)
	req := Request{Entity: "projects", Page: 1, PageSize: 3}
	_, err := c.FetchPage(context.Background(), req)
	require.Error(t, err)
	_, err = c.FetchPage(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, 2, calls)
}

func TestCachedSourceDropsExpiredEntries(t *testing.T) {
	src := SourceFunc[int](func(ctx context.Context, req Request) (Page[int], error) {
		return Page[int]{TotalCount: 1, Items: []int{req.Page}}, nil
	})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCached[int](src, time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		_, err := c.FetchPage(context.Background(), Request{Entity: "projects", Page: 1, PageSize: 3, Tag: fmt.Sprintf("tag-%d", i)})
		require.NoError(t, err)
		now = now.Add(time.Hour)
	}
	require.Equal(t, 1, c.Len())

	// an expired hit is removed even when nothing new is stored after it
	now = now.Add(time.Hour)
	failing := NewCached[int](SourceFunc[int](func(ctx context.Context, req Request) (Page[int], error) {
		return Page[int]{}, errors.New("down")
	}), time.Minute)
	failing.now = func() time.Time { return now }
	failing.items[Request{Page: 1}] = cachedPage[int]{expires: now.Add(-time.Second)}
	_, err := failing.FetchPage(context.Background(), Request{Page: 1})
	require.Error(t, err)
	require.Zero(t, failing.Len())
}

func TestCachedSourceEvictsOldestPastLimit(t *testing.T) {
	calls := 0
	src := SourceFunc[int](func(ctx context.Context, req Request) (Page[int], error) {
		calls++
		return Page[int]{TotalCount: 1, Items: []int{req.Page}}, nil
	})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCached[int](src, time.Hour)
	c.now = func() time.Time { return now }
	c.limit = 3

	for page := 1; page <= 10; page++ {
		_, err := c.FetchPage(context.Background(), Request{Entity: "projects", Page: page, PageSize: 3})
		require.NoError(t, err)
		now = now.Add(time.Second)
		require.LessOrEqual(t, c.Len(), 3)
	}
	require.Equal(t, 10, calls)

	// the newest three survive, the first page was evicted
	_, _ = c.FetchPage(context.Background(), Request{Entity: "projects", Page: 10, PageSize: 3})
	require.Equal(t, 10, calls)
	_, _ = c.FetchPage(context.Background(), Request{Entity: "projects", Page: 1, PageSize: 3})
	require.Equal(t, 11, calls)
}

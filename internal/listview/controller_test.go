package listview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubResult struct {
	page Page[int]
	err  error
}

type stubCall struct {
	req     Request
	release chan stubResult
}

// stubSource hands every fetch to the test, which decides when and how it completes.
type stubSource struct {
	calls        chan stubCall
	ignoreCancel bool
}

func newStubSource() *stubSource {
	return &stubSource{calls: make(chan stubCall, 16)}
}

func (s *stubSource) FetchPage(ctx context.Context, req Request) (Page[int], error) {
	call := stubCall{req: req, release: make(chan stubResult, 1)}
	s.calls <- call
	if s.ignoreCancel {
		r := <-call.release
		return r.page, r.err
	}
	select {
	case r := <-call.release:
		return r.page, r.err
	case <-ctx.Done():
		return Page[int]{}, ctx.Err()
	}
}

func (s *stubSource) next(t *testing.T) stubCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a fetch")
		return stubCall{}
	}
}

func (s *stubSource) requireIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected fetch %+v", c.req)
	case <-time.After(20 * time.Millisecond):
	}
}

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// sliceSource serves 1..total synchronously, ignoring tags.
func sliceSource(total int) Source[int] {
	all := numbers(total)
	return SourceFunc[int](func(ctx context.Context, req Request) (Page[int], error) {
		return Slice(all, req, nil), nil
	})
}

func waitSettled[T any](t *testing.T, c *Controller[T]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
}

func TestMountSeedsFromURLWithoutPushing(t *testing.T) {
	src := newStubSource()
	hist := NewMemoryHistory("tag=Go&page=2")
	c := New[int](src, hist, Options{Entity: "projects", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()

	call := src.next(t)
	require.Equal(t, Request{Entity: "projects", Page: 2, PageSize: 3, Tag: "Go"}, call.req)
	require.Equal(t, BranchLoading, c.State().Branch())

	call.release <- stubResult{page: Page[int]{TotalCount: 5, Items: []int{4, 5}}}
	waitSettled(t, c)

	st := c.State()
	require.Equal(t, Loaded, st.Phase)
	require.Equal(t, []int{4, 5}, st.Items)
	require.Equal(t, 2, st.Pagination.TotalPages)
	require.Len(t, hist.Entries(), 1)
}

func TestSetPageLoadsPartialLastPage(t *testing.T) {
	hist := NewMemoryHistory("")
	c := New[int](sliceSource(7), hist, Options{Entity: "projects", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	waitSettled(t, c)
	require.Equal(t, 3, c.State().Pagination.TotalPages)

	require.True(t, c.SetPage(3))
	waitSettled(t, c)

	st := c.State()
	require.Equal(t, 3, st.Pagination.Page)
	require.Equal(t, []int{7}, st.Items)
	require.Equal(t, "page=3", hist.Location())
	require.Equal(t, 2, c.Fetches())
}

func TestSetPageOutOfRangeIsNoop(t *testing.T) {
	hist := NewMemoryHistory("")
	c := New[int](sliceSource(7), hist, Options{Entity: "projects", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	waitSettled(t, c)

	require.False(t, c.SetPage(0))
	require.False(t, c.SetPage(4))
	require.False(t, c.SetPage(-1))
	require.Equal(t, 1, c.Fetches())
	require.Equal(t, 1, c.State().Pagination.Page)
	require.Len(t, hist.Entries(), 1)
}

func TestSetPageInRangeFetchesExactlyOnce(t *testing.T) {
	src := newStubSource()
	c := New[int](src, NewMemoryHistory(""), Options{Entity: "publications", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	src.next(t).release <- stubResult{page: Page[int]{TotalCount: 9, Items: []int{1, 2, 3}}}
	waitSettled(t, c)

	require.True(t, c.SetPage(2))
	call := src.next(t)
	require.Equal(t, 2, call.req.Page)
	src.requireIdle(t)
	call.release <- stubResult{page: Page[int]{TotalCount: 9, Items: []int{4, 5, 6}}}
	waitSettled(t, c)
	require.Equal(t, 2, c.Fetches())
}

func TestSetTagResetsPageAndPushes(t *testing.T) {
	hist := NewMemoryHistory("page=3")
	c := New[int](sliceSource(20), hist, Options{Entity: "projects", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	waitSettled(t, c)

	require.True(t, c.SetTag("Python"))
	require.Equal(t, 1, c.State().Pagination.Page)
	require.Equal(t, "page=1&tag=Python", hist.Location())
	waitSettled(t, c)

	require.True(t, c.SetPage(2))
	waitSettled(t, c)
	require.Equal(t, "page=2&tag=Python", hist.Location())

	require.True(t, c.SetTag(""))
	waitSettled(t, c)
	require.Equal(t, "page=1", hist.Location())
	require.Equal(t, Params{Page: 1}, c.State().Params())

	require.False(t, c.SetTag(""))
}

func TestSyncFromURLIsIdempotent(t *testing.T) {
	hist := NewMemoryHistory("page=1")
	c := New[int](sliceSource(9), hist, Options{Entity: "achievements", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	waitSettled(t, c)

	require.False(t, c.SyncFromURL())
	require.False(t, c.SyncFromURL())
	require.Equal(t, 1, c.Fetches())

	require.True(t, c.SetPage(2))
	waitSettled(t, c)
	_, ok := hist.Back()
	require.True(t, ok)

	require.True(t, c.SyncFromURL())
	waitSettled(t, c)
	require.False(t, c.SyncFromURL())
	require.Equal(t, 3, c.Fetches())
	require.Equal(t, []int{1, 2, 3}, c.State().Items)
	require.Equal(t, []string{"page=1", "page=2"}, hist.Entries())
}

func TestStaleResultIsDropped(t *testing.T) {
	src := newStubSource()
	src.ignoreCancel = true
	hist := NewMemoryHistory("")
	c := New[int](src, hist, Options{Entity: "projects", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	first := src.next(t)

	hist.Push("page=2")
	require.True(t, c.SyncFromURL())
	second := src.next(t)
	require.Equal(t, 2, second.req.Page)

	second.release <- stubResult{page: Page[int]{TotalCount: 9, Items: []int{4, 5, 6}}}
	waitSettled(t, c)
	first.release <- stubResult{page: Page[int]{TotalCount: 9, Items: []int{1, 2, 3}}}

	require.Never(t, func() bool {
		st := c.State()
		return st.Pagination.Page != 2 || len(st.Items) != 3 || st.Items[0] != 4
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestFailureClearsItemsAndResetsTotalPages(t *testing.T) {
	src := newStubSource()
	c := New[int](src, NewMemoryHistory(""), Options{Entity: "projects", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	src.next(t).release <- stubResult{page: Page[int]{TotalCount: 7, Items: []int{1, 2, 3}}}
	waitSettled(t, c)
	require.Equal(t, 3, c.State().Pagination.TotalPages)

	require.True(t, c.SetPage(2))
	src.next(t).release <- stubResult{err: errors.New("status 500")}
	waitSettled(t, c)

	st := c.State()
	require.Equal(t, Failed, st.Phase)
	require.Empty(t, st.Items)
	require.Equal(t, "Failed to fetch projects.", st.Error)
	require.Equal(t, 1, st.Pagination.TotalPages)
	require.Equal(t, BranchError, st.Branch())
}

func TestFetchTimeoutSurfacesAsError(t *testing.T) {
	src := newStubSource()
	c := New[int](src, NewMemoryHistory(""), Options{
		Entity:       "certifications",
		PageSize:     2,
		Timeout:      20 * time.Millisecond,
		ErrorMessage: "Could not load certifications.",
	})
	c.Mount(context.Background())
	defer c.Unmount()
	src.next(t)
	waitSettled(t, c)

	st := c.State()
	require.Equal(t, Failed, st.Phase)
	require.Equal(t, "Could not load certifications.", st.Error)
}

func TestUnmountDiscardsInFlightResult(t *testing.T) {
	src := newStubSource()
	src.ignoreCancel = true
	c := New[int](src, NewMemoryHistory(""), Options{Entity: "experiences", PageSize: 3})
	c.Mount(context.Background())
	call := src.next(t)
	c.Unmount()
	waitSettled(t, c)

	call.release <- stubResult{page: Page[int]{TotalCount: 1, Items: []int{1}}}
	require.Never(t, func() bool {
		return len(c.State().Items) != 0
	}, 50*time.Millisecond, 5*time.Millisecond)
	require.False(t, c.SetPage(1))
}

func TestScrollHookRunsOnPageChangeOnly(t *testing.T) {
	scrolled := 0
	c := New[int](sliceSource(9), NewMemoryHistory(""), Options{
		Entity:      "projects",
		PageSize:    3,
		OnScrollTop: func() { scrolled++ },
	})
	c.Mount(context.Background())
	defer c.Unmount()
	waitSettled(t, c)

	c.SetTag("Go")
	waitSettled(t, c)
	require.Equal(t, 0, scrolled)

	c.SetPage(5)
	require.Equal(t, 0, scrolled)
	c.SetPage(2)
	waitSettled(t, c)
	require.Equal(t, 1, scrolled)
}

func TestEmptyResultBranch(t *testing.T) {
	c := New[int](sliceSource(0), NewMemoryHistory(""), Options{Entity: "publications", PageSize: 3})
	c.Mount(context.Background())
	defer c.Unmount()
	waitSettled(t, c)

	st := c.State()
	require.Equal(t, BranchEmpty, st.Branch())
	require.Equal(t, 1, st.Pagination.TotalPages)
	require.Empty(t, st.Error)
}

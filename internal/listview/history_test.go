package listview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryHistoryBackForward(t *testing.T) {
	h := NewMemoryHistory("?page=1")
	h.Push("page=2")
	h.Push("page=3")
	require.Equal(t, "page=3", h.Location())

	loc, ok := h.Back()
	require.True(t, ok)
	require.Equal(t, "page=2", loc)

	h.Push("page=2&tag=Go")
	require.Equal(t, []string{"page=1", "page=2", "page=2&tag=Go"}, h.Entries())

	_, ok = h.Forward()
	require.False(t, ok)

	h.Back()
	h.Back()
	_, ok = h.Back()
	require.False(t, ok)
	require.Equal(t, "page=1", h.Location())
}

func TestRequestHistoryPushURL(t *testing.T) {
	h := NewRequestHistory("/projects", "page=1")
	_, ok := h.PushURL()
	require.False(t, ok)

	h.Visit("page=2")
	_, ok = h.PushURL()
	require.False(t, ok)
	require.Equal(t, "page=2", h.Location())

	h.Push("page=2&tag=Python")
	u, ok := h.PushURL()
	require.True(t, ok)
	require.Equal(t, "/projects?page=2&tag=Python", u)
}

func TestSynchronizerGuards(t *testing.T) {
	h := NewMemoryHistory("tag=Go&page=2")
	s := NewSynchronizer(h)

	require.False(t, s.Push(Params{Page: 2, Tag: "Go"}))
	require.Len(t, h.Entries(), 1)

	require.True(t, s.Push(Params{Page: 3, Tag: "Go"}))
	require.Equal(t, "page=3&tag=Go", h.Location())

	_, changed := s.Changed(Params{Page: 3, Tag: "Go"})
	require.False(t, changed)

	h.Back()
	next, changed := s.Changed(Params{Page: 3, Tag: "Go"})
	require.True(t, changed)
	require.Equal(t, Params{Page: 2, Tag: "Go"}, next)
}

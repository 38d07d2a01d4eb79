package listview

import (
	"strings"
	"sync"
)

// History is the address bar as seen by a list view: the query string of
// the current entry, and a way to append a new entry.
type History interface {
	Location() string
	Push(rawQuery string)
}

// MemoryHistory is an in-process history stack with back/forward support.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	idx     int
}

// NewMemoryHistory starts a history whose only entry is initial.
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []string{strings.TrimPrefix(initial, "?")}}
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.idx]
}

// Push appends an entry and drops anything ahead of the current position.
func (h *MemoryHistory) Push(rawQuery string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.idx+1], strings.TrimPrefix(rawQuery, "?"))
	h.idx = len(h.entries) - 1
}

// Back moves one entry back. It reports false at the start of history.
func (h *MemoryHistory) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.idx == 0 {
		return h.entries[h.idx], false
	}
	h.idx--
	return h.entries[h.idx], true
}

// Forward moves one entry forward. It reports false at the end of history.
func (h *MemoryHistory) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.idx >= len(h.entries)-1 {
		return h.entries[h.idx], false
	}
	h.idx++
	return h.entries[h.idx], true
}

// Entries returns a copy of the stack, oldest first.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// RequestHistory adapts a single htmx request: Location is the browser's
// current query and a Push is reported back as an HX-Push-Url value.
type RequestHistory struct {
	mu       sync.Mutex
	path     string
	location string
	pushed   bool
}

// NewRequestHistory seeds the history for path with the browser's current query.
func NewRequestHistory(path, rawQuery string) *RequestHistory {
	return &RequestHistory{path: path, location: strings.TrimPrefix(rawQuery, "?")}
}

func (h *RequestHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

func (h *RequestHistory) Push(rawQuery string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.location = strings.TrimPrefix(rawQuery, "?")
	h.pushed = true
}

// Visit moves to rawQuery without recording a push, like a popstate.
func (h *RequestHistory) Visit(rawQuery string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.location = strings.TrimPrefix(rawQuery, "?")
}

// PushURL returns the URL to hand to HX-Push-Url, if anything was pushed.
func (h *RequestHistory) PushURL() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.pushed {
		return "", false
	}
	if h.location == "" {
		return h.path, true
	}
	return h.path + "?" + h.location, true
}

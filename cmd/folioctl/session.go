package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/listview"
)

// session hides the item type of a list controller from the commands.
type session interface {
	Mount(ctx context.Context)
	SetPage(n int) bool
	SetTag(tag string) bool
	SyncFromURL() bool
	Wait(ctx context.Context) error
	Unmount()
	Snapshot() snapshot
}

type snapshot struct {
	Entity     string   `json:"entity"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
	Tag        string   `json:"tag,omitempty"`
	Branch     string   `json:"branch"`
	Error      string   `json:"error,omitempty"`
	Items      []string `json:"items"`
	HasNext    bool     `json:"-"`
}

type typedSession[T any] struct {
	*listview.Controller[T]
	entity string
	label  func(T) string
	id     func(T) backend.ID
}

func newSession[T any](e *env, src listview.Source[T], hist listview.History, name string, size int, label func(T) string, id func(T) backend.ID) session {
	ctrl := listview.New(src, hist, listview.Options{
		Entity:   name,
		PageSize: size,
		Timeout:  e.cfg.Lists.FetchTimeout,
		Logger:   e.log,
	})
	return &typedSession[T]{Controller: ctrl, entity: name, label: label, id: id}
}

func (s *typedSession[T]) Snapshot() snapshot {
	st := s.State()
	snap := snapshot{
		Entity:     s.entity,
		Page:       st.Pagination.Page,
		TotalPages: st.Pagination.TotalPages,
		Total:      st.Total,
		Tag:        st.Tag,
		Branch:     string(st.Branch()),
		Error:      st.Error,
		Items:      make([]string, 0, len(st.Items)),
		HasNext:    st.Error == "" && st.Pagination.HasNext(),
	}
	for _, it := range st.Items {
		snap.Items = append(snap.Items, fmt.Sprintf("[%s] %s", s.id(it), s.label(it)))
	}
	return snap
}

func printSnapshot(w io.Writer, snap snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(snap)
	}
	header := fmt.Sprintf("%s page %d/%d (%d total", snap.Entity, snap.Page, snap.TotalPages, snap.Total)
	if snap.Tag != "" {
		header += ", tag=" + snap.Tag
	}
	fmt.Fprintln(w, header+")")
	switch listview.Branch(snap.Branch) {
	case listview.BranchError:
		fmt.Fprintln(w, "  error: "+snap.Error)
	case listview.BranchEmpty:
		fmt.Fprintf(w, "  No %s found.\n", snap.Entity)
	default:
		for _, line := range snap.Items {
			fmt.Fprintln(w, "  "+line)
		}
	}
	return nil
}

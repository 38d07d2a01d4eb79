package listview

// Phase is the fetch lifecycle of a list view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Branch names the one render branch a view state maps to.
type Branch string

const (
	BranchLoading Branch = "loading"
	BranchError   Branch = "error"
	BranchEmpty   Branch = "empty"
	BranchItems   Branch = "items"
)

// ViewState is everything a list template needs.
type ViewState[T any] struct {
	Pagination Pagination
	Tag        string
	Items      []T
	Total      int
	Loading    bool
	Error      string
	Phase      Phase
}

// Params projects the state onto the query string.
func (s ViewState[T]) Params() Params {
	return Params{Page: s.Pagination.Page, Tag: s.Tag}
}

// Branch picks loading, then error, then empty, then items.
func (s ViewState[T]) Branch() Branch {
	switch {
	case s.Loading:
		return BranchLoading
	case s.Error != "":
		return BranchError
	case len(s.Items) == 0:
		return BranchEmpty
	default:
		return BranchItems
	}
}

package listview

import (
	"net/url"
	"strconv"
	"strings"
)

// Query string keys owned by a list view.
const (
	QueryPage = "page"
	QueryTag  = "tag"
)

// Params is the part of list state mirrored into the address bar.
type Params struct {
	Page int
	Tag  string
}

// DefaultParams is the state of a freshly mounted view with an empty query.
func DefaultParams() Params {
	return Params{Page: 1}
}

// ParseQuery decodes a raw query string. Malformed pairs are skipped; the
// rest still count.
func ParseQuery(raw string) Params {
	// url.ParseQuery keeps every pair it could decode alongside the error.
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return FromValues(values)
}

// FromValues reads page and tag. A missing, non-numeric or sub-1 page becomes 1.
func FromValues(values url.Values) Params {
	p := DefaultParams()
	if values == nil {
		return p
	}
	if raw := strings.TrimSpace(values.Get(QueryPage)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			p.Page = n
		}
	}
	p.Tag = values.Get(QueryTag)
	return p
}

// Values encodes the params. The tag key is left out when no filter is set.
func (p Params) Values() url.Values {
	page := p.Page
	if page < 1 {
		page = 1
	}
	v := url.Values{}
	v.Set(QueryPage, strconv.Itoa(page))
	if p.Tag != "" {
		v.Set(QueryTag, p.Tag)
	}
	return v
}

// Encode renders the canonical query string, e.g. "page=2&tag=Python".
func (p Params) Encode() string {
	return p.Values().Encode()
}

// Package seo builds page metadata and schema.org payloads.
package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

type Twitter struct {
	Card  string
	Image string
}

type Alternate struct {
	Href     string
	Hreflang string
}

// Meta is rendered into the document head.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// New fills Meta for a page at path. baseURL may be empty, in which case
// canonical and alternate links are left out.
func New(siteName, title, description, baseURL, path string, langs []string) Meta {
	full := siteName
	if title != "" && title != siteName {
		full = title + " | " + siteName
	}
	m := Meta{
		Title:       full,
		Description: description,
		OG:          OpenGraph{Title: full, Description: description, Type: "website", SiteName: siteName},
		Twitter:     Twitter{Card: "summary"},
	}
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return m
	}
	m.Canonical = base + path
	m.OG.URL = m.Canonical
	for _, l := range langs {
		m.Alternates = append(m.Alternates, Alternate{Href: m.Canonical + "?hl=" + l, Hreflang: l})
	}
	return m
}

// AddJSONLD appends a schema payload.
func (m *Meta) AddJSONLD(v any) {
	if s := JSON(v); s != "" {
		m.JSONLD = append(m.JSONLD, s)
	}
}

package seo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuildsCanonicalAndAlternates(t *testing.T) {
	m := New("Portfolio", "Projects", "Things I built", "https://example.com/", "/projects", []string{"en", "bn"})
	require.Equal(t, "Projects | Portfolio", m.Title)
	require.Equal(t, "https://example.com/projects", m.Canonical)
	require.Equal(t, m.Canonical, m.OG.URL)
	require.Equal(t, []Alternate{
		{Href: "https://example.com/projects?hl=en", Hreflang: "en"},
		{Href: "https://example.com/projects?hl=bn", Hreflang: "bn"},
	}, m.Alternates)

	m = New("Portfolio", "", "", "", "/", nil)
	require.Equal(t, "Portfolio", m.Title)
	require.Empty(t, m.Canonical)
}

func TestAddJSONLD(t *testing.T) {
	var m Meta
	m.AddJSONLD(Person("Ada", "https://example.com", "Engineer", nil))
	require.Len(t, m.JSONLD, 1)
	require.JSONEq(t, `{"@context":"https://schema.org","@type":"Person","name":"Ada","url":"https://example.com","jobTitle":"Engineer"}`, m.JSONLD[0])

	m.AddJSONLD(func() {})
	require.Len(t, m.JSONLD, 1)
}

package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/config"
	"finitefield.org/folio-web/internal/content"
)

func projects(n int) []backend.Project {
	out := make([]backend.Project, n)
	for i := range out {
		out[i] = backend.Project{ID: backend.ID(rune('a' + i)), Title: "p"}
	}
	return out
}

func TestFeaturedRule(t *testing.T) {
	shown, short := Featured(projects(2), 0)
	require.Len(t, shown, 2)
	require.False(t, short)

	shown, short = Featured(projects(2), 3)
	require.Nil(t, shown)
	require.True(t, short)

	shown, short = Featured(projects(5), 3)
	require.Len(t, shown, 3)
	require.False(t, short)
}

func TestBuildHomeData(t *testing.T) {
	d := BuildHomeData(content.Page{Title: "Home"}, projects(1), 2)
	require.Equal(t, "Home", d.Page.Title)
	require.True(t, d.FeaturedShort)
	require.Empty(t, d.Featured)
}

func TestAnalyticsFrom(t *testing.T) {
	a := AnalyticsFrom(config.Analytics{GA4MeasurementID: "G-1", Debug: true})
	require.True(t, a.Enabled())
	require.True(t, a.Debug)
	require.False(t, Analytics{}.Enabled())
}

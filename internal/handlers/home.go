package handlers

import (
	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/content"
)

// HomeData is the view model for the home page.
type HomeData struct {
	Page     content.Page
	Featured []backend.Project
	// FeaturedShort is set when fewer projects than required are available.
	FeaturedShort bool
	// FeaturedError is set when the projects could not be loaded at all.
	FeaturedError string
}

// Featured applies the featured-projects rule. With required == 0 every
// project is shown; otherwise exactly required projects are shown, or none
// and short is true.
func Featured(projects []backend.Project, required int) (shown []backend.Project, short bool) {
	if required <= 0 {
		return projects, false
	}
	if len(projects) < required {
		return nil, true
	}
	return projects[:required], false
}

// BuildHomeData constructs the landing page view model.
func BuildHomeData(page content.Page, projects []backend.Project, required int) HomeData {
	shown, short := Featured(projects, required)
	return HomeData{Page: page, Featured: shown, FeaturedShort: short}
}

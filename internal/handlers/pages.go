// Package handlers holds the view models shared by the web templates.
package handlers

import (
	"finitefield.org/folio-web/internal/chat"
	"finitefield.org/folio-web/internal/nav"
	"finitefield.org/folio-web/internal/seo"
)

// PageData is the view model every full page renders through the base layout.
type PageData struct {
	Title     string
	Lang      string
	Langs     []string
	SEO       seo.Meta
	Analytics Analytics
	CSRFToken string

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// Visitors is the site visit total; 0 hides the footer counter.
	Visitors int64
	Chat     ChatData

	// Optional per-page view model payloads
	Home    any
	Content any
	List    any
	Detail  any
	Resume  any
	Contact any
	Error   any
}

// ChatData is the chat widget's transcript.
type ChatData struct {
	Greeting string
	Messages []chat.Message
}

package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/content"
	handlersPkg "finitefield.org/folio-web/internal/handlers"
	"finitefield.org/folio-web/internal/listview"
	mw "finitefield.org/folio-web/internal/middleware"
	"finitefield.org/folio-web/internal/observability"
	"finitefield.org/folio-web/internal/seo"
)

// HomeHandler renders the landing page with the featured projects.
func (a *app) HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	log := observability.FromContext(r.Context())
	page := a.contentPage(r, "home")

	size := a.cfg.Lists.FeaturedRequired
	if size <= 0 {
		size = a.cfg.Lists.ProjectsPerPage
	}
	var home handlersPkg.HomeData
	res, err := a.api.Projects().FetchPage(r.Context(), listview.Request{Entity: backend.EntityProjects, Page: 1, PageSize: size})
	if err != nil {
		log.Warn("featured projects unavailable", zap.Error(err))
		home = handlersPkg.HomeData{Page: page, FeaturedError: "Failed to fetch projects."}
	} else {
		home = handlersPkg.BuildHomeData(page, res.Items, a.cfg.Lists.FeaturedRequired)
	}

	vm := a.newPageData(r, page.SEO.Title, page.SEO.Description, "")
	vm.SEO.AddJSONLD(seo.WebSite(i18nOrDefault(lang, "site.title", siteName), a.cfg.Server.BaseURL))
	vm.Home = home
	renderPage(w, r, "home", vm)
}

// AboutHandler renders the about page and its skill bars.
func (a *app) AboutHandler(w http.ResponseWriter, r *http.Request) {
	page := a.contentPage(r, "about")
	vm := a.newPageData(r, page.SEO.Title, page.SEO.Description, "")
	vm.SEO.AddJSONLD(seo.Person(page.Headline, a.cfg.Server.BaseURL, page.Summary, nil))
	vm.Content = page
	renderPage(w, r, "about", vm)
}

// contentPage loads a markdown page, degrading to a bare title when missing.
func (a *app) contentPage(r *http.Request, slug string) content.Page {
	lang := mw.Lang(r)
	page, err := a.pages.Page(slug, lang)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			observability.FromContext(r.Context()).Error("content load failed", zap.String("slug", slug), zap.Error(err))
		}
		page = content.Page{Slug: slug, Lang: lang, Title: i18nOrDefault(lang, "nav."+slug, slug)}
	}
	if page.SEO.Title == "" {
		page.SEO.Title = page.Title
	}
	if page.SEO.Description == "" {
		page.SEO.Description = page.Summary
	}
	return page
}

type resumeView struct {
	Resume  backend.Resume
	Missing bool
	Error   string
}

// ResumeHandler renders the newest resume with an embedded PDF.
func (a *app) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	var view resumeView
	res, err := a.api.LatestResume(r.Context())
	switch {
	case errors.Is(err, backend.ErrNotFound):
		view.Missing = true
	case err != nil:
		observability.FromContext(r.Context()).Warn("resume unavailable", zap.Error(err))
		view.Error = "Failed to fetch resume."
	default:
		view.Resume = res
	}
	vm := a.newPageData(r, i18nOrDefault(lang, "nav.resume", "Resume"), "", "")
	vm.Resume = view
	renderPage(w, r, "resume", vm)
}

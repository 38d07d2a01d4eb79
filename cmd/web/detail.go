package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	mw "finitefield.org/folio-web/internal/middleware"
	"finitefield.org/folio-web/internal/observability"
	"finitefield.org/folio-web/internal/seo"
	"finitefield.org/folio-web/internal/textutil"
)

// ProjectDetailHandler renders /projects/{id}.
func (a *app) ProjectDetailHandler(w http.ResponseWriter, r *http.Request) {
	p, err := a.api.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.detailError(w, r, "project", err)
		return
	}
	vm := a.newPageData(r, p.Title, textutil.Excerpt(p.Description, 150), p.Title)
	vm.SEO.OG.Type = "article"
	vm.SEO.OG.Image = p.Image
	vm.SEO.AddJSONLD(seo.CreativeWork(p.Title, textutil.StripTags(p.Description), vm.SEO.Canonical, p.Image, p.Tags))
	vm.Detail = p
	renderPage(w, r, "project", vm)
}

// ExperienceDetailHandler renders /experience/{id}.
func (a *app) ExperienceDetailHandler(w http.ResponseWriter, r *http.Request) {
	e, err := a.api.GetExperience(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.detailError(w, r, "experience", err)
		return
	}
	title := strings.TrimSpace(e.JobTitle + " @ " + e.CompanyName)
	vm := a.newPageData(r, title, textutil.Excerpt(e.WorkDetails, 200), e.CompanyName)
	vm.Detail = e
	renderPage(w, r, "experience", vm)
}

func (a *app) detailError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		a.renderError(w, r, http.StatusNotFound, "")
		return
	}
	observability.FromContext(r.Context()).Error("detail fetch failed", zap.String("resource", resource), zap.Error(err))
	msg := i18nOrDefault(mw.Lang(r), "error.generic", "Something went wrong.")
	a.renderError(w, r, http.StatusBadGateway, msg)
}

package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/format"
	handlersPkg "finitefield.org/folio-web/internal/handlers"
	mw "finitefield.org/folio-web/internal/middleware"
	"finitefield.org/folio-web/internal/nav"
	"finitefield.org/folio-web/internal/observability"
	"finitefield.org/folio-web/internal/seo"
	"finitefield.org/folio-web/internal/textutil"
)

var tmplCache *template.Template

const siteName = "Portfolio"

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"T": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
		"sanitize": textutil.Sanitize,
		"excerpt":  textutil.Excerpt,
		"date": func(raw, lang string) string {
			if t := backend.ParseDate(raw); !t.IsZero() {
				return format.FmtDate(t, lang)
			}
			return raw
		},
		"month": func(raw string) string {
			if t := backend.ParseDate(raw); !t.IsZero() {
				return format.FmtMonth(t)
			}
			return raw
		},
		"period": func(e backend.Experience, present string) string {
			return format.Period(backend.ParseDate(e.StartDate), backend.ParseDate(e.EndDate), e.IsCurrent, e.EndDateDisplay, present)
		},
		"count": format.FmtCount,
		// query is a pre-encoded query string; template.URL keeps "&" and "=" intact.
		"query": func(page int, tag string) template.URL {
			return template.URL(queryString(page, tag))
		},
		"safeJS": func(s string) template.JS { return template.JS(s) },
	}
}

func parseTemplates() (*template.Template, error) {
	// ParseGlob doesn't support **, so walk the tree.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(templateFuncs()).ParseFiles(files...)
}

func templates() (*template.Template, error) {
	if devMode || tmplCache == nil {
		return parseTemplates()
	}
	return tmplCache, nil
}

// renderPage executes the full-page template "page_<page>".
func renderPage(w http.ResponseWriter, r *http.Request, page string, data handlersPkg.PageData) {
	renderPageStatus(w, r, http.StatusOK, page, data)
}

func renderPageStatus(w http.ResponseWriter, r *http.Request, status int, page string, data handlersPkg.PageData) {
	executeTemplate(w, r, status, "page_"+page, data)
}

// renderTemplate executes a single named fragment.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	executeTemplate(w, r, http.StatusOK, name, data)
}

func executeTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	log := observability.FromContext(r.Context())
	t, err := templates()
	if err != nil {
		log.Error("template parse failed", zap.Error(err))
		http.Error(w, "template parse error", http.StatusInternalServerError)
		return
	}
	// buffer so a failing template does not leave a half-written page
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("template exec failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != key {
		return v
	}
	return def
}

// newPageData fills the layout fields shared by every full page. leaf labels
// the last breadcrumb on detail pages.
func (a *app) newPageData(r *http.Request, title, description, leaf string) handlersPkg.PageData {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)
	if a.chat.Expire(&sess.Chat) {
		sess.MarkDirty()
	}
	a.countVisit(r)

	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Langs:       supportedLangs,
		Analytics:   handlersPkg.AnalyticsFrom(a.cfg.Analytics),
		CSRFToken:   mw.CSRFToken(r),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, leaf),
		Visitors:    sess.Visitors,
		Chat:        a.chatData(r),
	}
	vm.SEO = seo.New(i18nOrDefault(lang, "site.title", siteName), title, description, a.cfg.Server.BaseURL, r.URL.Path, supportedLangs)
	if len(vm.Breadcrumbs) > 1 && a.cfg.Server.BaseURL != "" {
		base := strings.TrimRight(a.cfg.Server.BaseURL, "/")
		items := make([]seo.BreadcrumbItem, 0, len(vm.Breadcrumbs))
		for _, c := range vm.Breadcrumbs {
			name := c.Label
			if c.LabelKey != "" {
				name = i18nOrDefault(lang, c.LabelKey, c.Label)
			}
			items = append(items, seo.BreadcrumbItem{Name: name, Item: base + c.Href})
		}
		vm.SEO.AddJSONLD(seo.BreadcrumbList(items))
	}
	return vm
}

// countVisit records one visit per session. Failures only hide the counter.
func (a *app) countVisit(r *http.Request) {
	sess := mw.GetSession(r)
	if sess.Counted {
		return
	}
	sess.Counted = true
	sess.MarkDirty()
	vc, err := a.api.RecordVisit(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("visitor count failed", zap.Error(err))
		return
	}
	sess.Visitors = vc.Count
}

// NotFoundHandler renders the 404 page.
func (a *app) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, r, http.StatusNotFound, "")
}

func (a *app) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	lang := mw.Lang(r)
	if msg == "" {
		if status == http.StatusNotFound {
			msg = i18nOrDefault(lang, "error.notfound", "The page you were looking for does not exist.")
		} else {
			msg = i18nOrDefault(lang, "error.generic", "Something went wrong.")
		}
	}
	if mw.IsHTMX(r.Context()) {
		mw.WriteError(w, r, status, msg)
		return
	}
	vm := a.newPageData(r, http.StatusText(status), msg, "")
	vm.SEO.Robots = "noindex"
	vm.Error = map[string]any{"Status": status, "Message": msg}
	renderPageStatus(w, r, status, "error", vm)
}

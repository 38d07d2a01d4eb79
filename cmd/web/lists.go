package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/listview"
	mw "finitefield.org/folio-web/internal/middleware"
	"finitefield.org/folio-web/internal/observability"
)

// scrollTopEvent is sent in HX-Trigger after a page change.
const scrollTopEvent = "list:scrolltop"

// listView is what the list templates render. Items holds a []T.
type listView struct {
	Entity     string
	Path       string
	Lang       string
	Heading    string
	EmptyKey   string
	Items      any
	Total      int
	Tag        string
	Tags       []backend.Tag
	Pagination listview.Pagination
	Branch     listview.Branch
	Error      string
}

// listRoute serves one entity's full page and its htmx fragment.
type listRoute[T any] struct {
	app      *app
	entity   string
	path     string
	pageSize int
	src      listview.Source[T]
	// tags loads the filter options; nil hides the filter.
	tags func(ctx context.Context) []backend.Tag
}

type mountedList struct {
	path     string
	page     http.HandlerFunc
	fragment http.HandlerFunc
}

type lists []mountedList

func (l lists) mount(r chi.Router) {
	for _, m := range l {
		r.Get(m.path, m.page)
		r.Get(m.path+"/list", m.fragment)
	}
}

func newLists(a *app) lists {
	ttl := a.cfg.Lists.CacheTTL
	return lists{
		mountList(&listRoute[backend.Project]{
			app: a, entity: backend.EntityProjects, path: "/projects",
			pageSize: a.cfg.Lists.ProjectsPerPage,
			src:      listview.NewCached(a.api.Projects(), ttl),
			tags:     a.projectTags,
		}),
		mountList(&listRoute[backend.Experience]{
			app: a, entity: backend.EntityExperiences, path: "/experience",
			pageSize: a.cfg.Lists.ExperiencePerPage,
			src:      listview.NewCached(a.api.Experiences(), ttl),
		}),
		mountList(&listRoute[backend.Certification]{
			app: a, entity: backend.EntityCertifications, path: "/certifications",
			pageSize: a.cfg.Lists.CertificationPage,
			src:      listview.NewCached(a.api.Certifications(), ttl),
		}),
		mountList(&listRoute[backend.Achievement]{
			app: a, entity: backend.EntityAchievements, path: "/achievements",
			pageSize: a.cfg.Lists.AchievementsPage,
			src:      listview.NewCached(a.api.Achievements(), ttl),
		}),
		mountList(&listRoute[backend.Publication]{
			app: a, entity: backend.EntityPublications, path: "/publications",
			pageSize: a.cfg.Lists.PublicationsPage,
			src:      listview.NewCached(a.api.Publications(), ttl),
		}),
	}
}

func mountList[T any](l *listRoute[T]) mountedList {
	return mountedList{path: l.path, page: l.pageHandler, fragment: l.fragmentHandler}
}

// section is the path segment used for i18n keys, e.g. "experience".
func (l *listRoute[T]) section() string {
	return strings.TrimPrefix(l.path, "/")
}

func (l *listRoute[T]) controller(r *http.Request, hist listview.History, onScroll func()) *listview.Controller[T] {
	return listview.New(l.src, hist, listview.Options{
		Entity:      l.entity,
		PageSize:    l.pageSize,
		Timeout:     l.app.cfg.Lists.FetchTimeout,
		OnScrollTop: onScroll,
		Logger:      observability.FromContext(r.Context()),
	})
}

// pageHandler renders the full list page seeded from the request query.
func (l *listRoute[T]) pageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hist := listview.NewRequestHistory(l.path, r.URL.RawQuery)
	ctrl := l.controller(r, hist, nil)
	ctrl.Mount(ctx)
	defer ctrl.Unmount()
	if err := ctrl.Wait(ctx); err != nil {
		return
	}

	lang := mw.Lang(r)
	heading := i18nOrDefault(lang, "nav."+l.section(), l.section())
	vm := l.app.newPageData(r, heading, "", "")
	vm.List = l.view(r, ctrl.State())
	renderPage(w, r, "list", vm)
}

// fragmentHandler applies one list action and renders the list region.
//
//	?action=page&page=N[&tag=T]  move to page N and push the URL
//	?action=tag&tag=T            filter by T, reset to page 1 and push the URL
//	no action                    adopt page and tag from the query without pushing
func (l *listRoute[T]) fragmentHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	action := q.Get("action")
	q.Del("action")
	target := listview.FromValues(q).Encode()

	seed := target
	if action != "" {
		seed = l.actionSeed(r, action, q)
	}
	hist := listview.NewRequestHistory(l.path, seed)
	scrolled := false
	ctrl := l.controller(r, hist, func() { scrolled = true })
	ctrl.Mount(ctx)
	defer ctrl.Unmount()
	if err := ctrl.Wait(ctx); err != nil {
		return
	}

	switch action {
	case "page":
		if n, err := strconv.Atoi(q.Get(listview.QueryPage)); err == nil {
			ctrl.SetPage(n)
		}
	case "tag":
		ctrl.SetTag(strings.TrimSpace(q.Get(listview.QueryTag)))
	default:
		hist.Visit(target)
		ctrl.SyncFromURL()
	}
	if err := ctrl.Wait(ctx); err != nil {
		return
	}

	if u, ok := hist.PushURL(); ok {
		w.Header().Set("HX-Push-Url", u)
	}
	if scrolled {
		w.Header().Set("HX-Trigger", scrollTopEvent)
	}
	renderTemplate(w, r, "list_region", l.view(r, ctrl.State()))
}

// actionSeed is where the browser stands before a page or tag action. The
// page comes from HX-Current-URL, page 1 when that is missing or points
// elsewhere. A tag carried by a page link wins over the current URL.
func (l *listRoute[T]) actionSeed(r *http.Request, action string, q url.Values) string {
	seed := listview.DefaultParams()
	if cur, ok := l.currentQuery(r); ok {
		seed = listview.ParseQuery(cur)
	}
	if _, ok := q[listview.QueryTag]; ok && action == "page" {
		seed.Tag = strings.TrimSpace(q.Get(listview.QueryTag))
	}
	return seed.Encode()
}

// currentQuery is the query of the page the browser shows, from HX-Current-URL.
func (l *listRoute[T]) currentQuery(r *http.Request) (string, bool) {
	cur := mw.HTMXFromContext(r.Context()).CurrentURL
	if cur == "" {
		return "", false
	}
	u, err := url.Parse(cur)
	if err != nil || strings.TrimSuffix(u.Path, "/") != l.path {
		return "", false
	}
	return u.RawQuery, true
}

func (l *listRoute[T]) view(r *http.Request, st listview.ViewState[T]) listView {
	lang := mw.Lang(r)
	v := listView{
		Entity:     l.entity,
		Path:       l.path,
		Lang:       lang,
		Heading:    i18nOrDefault(lang, "nav."+l.section(), l.section()),
		EmptyKey:   "list.empty." + l.section(),
		Items:      st.Items,
		Total:      st.Total,
		Tag:        st.Tag,
		Pagination: st.Pagination,
		Branch:     st.Branch(),
		Error:      st.Error,
	}
	if l.tags != nil {
		v.Tags = l.tags(r.Context())
	}
	return v
}

// projectTags loads the tag catalog; the filter falls back to "All" alone.
func (a *app) projectTags(ctx context.Context) []backend.Tag {
	tags, err := a.api.ListTags(ctx)
	if err != nil {
		observability.FromContext(ctx).Warn("tag catalog unavailable", zap.Error(err))
		return nil
	}
	return tags
}

func queryString(page int, tag string) string {
	return listview.Params{Page: page, Tag: tag}.Encode()
}

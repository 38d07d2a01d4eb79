package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/config"
	"finitefield.org/folio-web/internal/i18n"
	mw "finitefield.org/folio-web/internal/middleware"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.Server.Env = "dev"
	cfg.API.Timeout = 2 * time.Second
	cfg.Lists = config.Lists{
		FetchTimeout:      2 * time.Second,
		ProjectsPerPage:   3,
		ExperiencePerPage: 3,
		AchievementsPage:  2,
		CertificationPage: 2,
		PublicationsPage:  3,
	}
	cfg.Session.ChatInactivity = 5 * time.Minute
	cfg.Session.ChatHistoryMax = 12
	cfg.Content.Dir = "../../content"
	cfg.Content.CacheTTL = time.Minute
	return cfg
}

// newTestRouter builds the same router as main(), serving templates from the repo.
func newTestRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	devMode = true
	templatesDir = "../../templates"
	publicDir = "../../public"
	_, err := parseTemplates()
	require.NoError(t, err, "parseTemplates")
	i18nBundle, err = i18n.Load("../../locales", "en", supportedLangs)
	require.NoError(t, err)
	mw.ConfigureSession("test-key", false)
	return newRouter(newApp(cfg, zap.NewNop()))
}

// client carries cookies between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

// fragment issues an htmx request from a browser showing current.
func (c *client) fragment(target, current string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("HX-Request", "true")
	if current != "" {
		req.Header.Set("HX-Current-URL", "http://example.com"+current)
	}
	return c.do(req)
}

func (c *client) post(target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestHealthzOK(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestHomeShowsNavFeaturedAndVisitors(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	require.Equal(t, "Projects", strings.TrimSpace(doc.Find(`.site-nav a[href="/projects"]`).Text()))
	require.Equal(t, 3, doc.Find("#featured .project-card").Length())
	require.Equal(t, "1", doc.Find(".visitor-count").AttrOr("data-visitors", ""))

	// counted once per session
	doc = parseHTML(t, c.get("/about"))
	require.Equal(t, "1", doc.Find(".visitor-count").AttrOr("data-visitors", ""))
}

func TestHomeFeaturedRuleShortfall(t *testing.T) {
	cfg := testConfig()
	cfg.Lists.FeaturedRequired = 10
	c := newClient(t, newTestRouter(t, cfg))
	doc := parseHTML(t, c.get("/"))
	require.Equal(t, 0, doc.Find("#featured .project-card").Length())
	require.Contains(t, doc.Find(".featured-short").Text(), "Not enough featured projects")
}

func TestAboutRendersSkills(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	doc := parseHTML(t, c.get("/about"))
	require.Greater(t, doc.Find(".skills .skill").Length(), 0)
	require.Equal(t, "95", doc.Find(".skill").First().AttrOr("data-level", ""))
}

func TestListPageSeedsFromQuery(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.get("/projects?page=2&tag=Python")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	region := doc.Find("#list-region")
	require.Equal(t, "2", region.AttrOr("data-page", ""))
	require.Equal(t, "2", region.AttrOr("data-total-pages", ""))
	require.Equal(t, 1, region.Find(".project-card").Length())
	require.Equal(t, "Python", doc.Find("#tag-filter option[selected]").AttrOr("value", ""))
	require.Greater(t, doc.Find("#tag-filter option").Length(), 1)
}

func TestListPageInvalidQueryFallsBackToFirstPage(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	doc := parseHTML(t, c.get("/certifications?page=abc"))
	require.Equal(t, "1", doc.Find("#list-region").AttrOr("data-page", ""))
	require.Equal(t, 2, doc.Find(".certification-card").Length())
	require.Equal(t, "3", doc.Find("#list-region").AttrOr("data-total-pages", ""))
}

func TestFragmentPageChangePushesURL(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.fragment("/projects/list?action=page&page=3", "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/projects?page=3", rec.Header().Get("HX-Push-Url"))
	require.Equal(t, scrollTopEvent, rec.Header().Get("HX-Trigger"))

	doc := parseHTML(t, rec)
	require.Equal(t, "3", doc.Find("#list-region").AttrOr("data-page", ""))
	// 7 projects, 3 per page: the last page holds one
	require.Equal(t, 1, doc.Find(".project-card").Length())
	require.Equal(t, 0, doc.Find(".page-next").Length())
	require.Equal(t, 1, doc.Find(".page-prev").Length())
}

func TestFragmentOutOfRangePageIsNoop(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.fragment("/projects/list?action=page&page=9", "/projects?page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("HX-Push-Url"))
	require.Empty(t, rec.Header().Get("HX-Trigger"))
	require.Equal(t, "2", parseHTML(t, rec).Find("#list-region").AttrOr("data-page", ""))
}

func TestFragmentTagResetsPage(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.fragment("/projects/list?action=tag&tag=Python", "/projects?page=3")
	require.Equal(t, "/projects?page=1&tag=Python", rec.Header().Get("HX-Push-Url"))
	doc := parseHTML(t, rec)
	require.Equal(t, "1", doc.Find("#list-region").AttrOr("data-page", ""))
	require.Equal(t, 3, doc.Find(".project-card").Length())

	rec = c.fragment("/projects/list?action=page&page=2", "/projects?page=1&tag=Python")
	require.Equal(t, "/projects?page=2&tag=Python", rec.Header().Get("HX-Push-Url"))

	rec = c.fragment("/projects/list?action=tag&tag=", "/projects?page=2&tag=Python")
	require.Equal(t, "/projects?page=1", rec.Header().Get("HX-Push-Url"))
	require.Equal(t, "3", parseHTML(t, rec).Find("#list-region").AttrOr("data-total-pages", ""))
}

func TestFragmentTagWithNoMatchesShowsEmpty(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.fragment("/projects/list?action=tag&tag=Haskell", "/projects")
	doc := parseHTML(t, rec)
	require.Equal(t, "empty", doc.Find("#list-region").AttrOr("data-branch", ""))
	require.Equal(t, "No projects found.", strings.TrimSpace(doc.Find(".list-empty").Text()))
	require.Equal(t, 0, doc.Find(".pagination").Length())
}

func TestFragmentSyncDoesNotPush(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.fragment("/experience/list?page=2", "/experience?page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("HX-Push-Url"))
	doc := parseHTML(t, rec)
	require.Equal(t, "2", doc.Find("#list-region").AttrOr("data-page", ""))
	require.Equal(t, 1, doc.Find(".experience-card").Length())

	// back navigation: the browser already shows page 1
	rec = c.fragment("/experience/list?page=1", "/experience?page=2")
	require.Empty(t, rec.Header().Get("HX-Push-Url"))
	doc = parseHTML(t, rec)
	require.Equal(t, "1", doc.Find("#list-region").AttrOr("data-page", ""))
	require.Contains(t, doc.Find(".experience-card .period").First().Text(), "Present")
}

func TestListFailureShowsErrorBranch(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"boom"}`)
	}))
	defer api.Close()
	cfg := testConfig()
	cfg.API.URL = api.URL + "/"
	c := newClient(t, newTestRouter(t, cfg))

	rec := c.get("/projects?page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	region := doc.Find("#list-region")
	require.Equal(t, "error", region.AttrOr("data-branch", ""))
	require.Equal(t, "1", region.AttrOr("data-total-pages", ""))
	require.Equal(t, "Failed to fetch projects.", strings.TrimSpace(region.Find(".list-error p").Text()))
	require.Equal(t, 0, region.Find(".project-card").Length())
	require.Equal(t, 0, doc.Find(".visitor-count").Length())
	retry := region.Find(".list-error a")
	require.Equal(t, "#list-region:replace", retry.AttrOr("hx-sync", ""))
	require.Equal(t, "/projects/list?page=2", retry.AttrOr("hx-get", ""))
}

func TestListControlsReplaceInFlightRequests(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	doc := parseHTML(t, c.get("/projects?page=1&tag=Python"))
	region := doc.Find("#list-region")
	require.Equal(t, "this:replace", region.AttrOr("hx-sync", ""))
	require.Equal(t, "#list-region:replace", doc.Find("#tag-filter").AttrOr("hx-sync", ""))

	links := doc.Find(".pagination a[hx-get]")
	require.Greater(t, links.Length(), 1)
	links.Each(func(_ int, a *goquery.Selection) {
		require.Equal(t, "#list-region:replace", a.AttrOr("hx-sync", ""), a.Text())
		require.Contains(t, a.AttrOr("hx-get", ""), "tag=Python", a.Text())
	})
}

func TestFragmentPageKeepsRequestTag(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	for _, current := range []string{"", "/projects/?page=1&tag=Python", "/about"} {
		rec := c.fragment("/projects/list?action=page&page=2&tag=Python", current)
		require.Equal(t, "/projects?page=2&tag=Python", rec.Header().Get("HX-Push-Url"), "current=%q", current)
		doc := parseHTML(t, rec)
		require.Equal(t, "Python", doc.Find("#list-region").AttrOr("data-tag", ""))
		// 4 Python projects, 3 per page
		require.Equal(t, 1, doc.Find(".project-card").Length(), "current=%q", current)
	}

	// a link rendered without a filter clears a stale tag in the address bar
	rec := c.fragment("/projects/list?action=page&page=2&tag=", "/projects?page=1&tag=Python")
	require.Equal(t, "/projects?page=2", rec.Header().Get("HX-Push-Url"))
	require.Equal(t, 3, parseHTML(t, rec).Find(".project-card").Length())
}

func TestProjectDetail(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.get("/projects/1")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	require.Equal(t, "Retrieval-Augmented Portfolio Assistant", strings.TrimSpace(doc.Find(".project-detail h1").Text()))
	require.Equal(t, 2, doc.Find(".gallery figure").Length())
	require.Equal(t, "Retrieval-Augmented Portfolio Assistant", strings.TrimSpace(doc.Find(".breadcrumbs [aria-current=page]").Text()))
	require.Equal(t, 1, doc.Find(".project-detail .prose strong").Length())

	rec = c.get("/projects/999")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "404", parseHTML(t, rec).Find(".error-page").AttrOr("data-status", ""))
}

func TestExperienceDetail(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	doc := parseHTML(t, c.get("/experience/2"))
	require.Equal(t, "Data Scientist", strings.TrimSpace(doc.Find(".experience-detail h1").Text()))
	require.Equal(t, 1, doc.Find(".gallery figure").Length())
}

func TestResumeShowsNewest(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	doc := parseHTML(t, c.get("/resume"))
	require.Equal(t, "/assets/resume/resume-2025.pdf", doc.Find(".resume-download").AttrOr("href", ""))
}

func csrfFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	token := parseHTML(t, rec).Find(`input[name="csrf_token"]`).First().AttrOr("value", "")
	require.NotEmpty(t, token)
	return token
}

func TestContactFormValidatesAndSends(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	token := csrfFrom(t, c.get("/contact"))

	rec := c.post("/contact", url.Values{"name": {"Ada"}, "email": {"not-an-email"}, "message": {"hi"}}, true)
	require.Equal(t, http.StatusForbidden, rec.Code, "missing token")

	rec = c.post("/contact", url.Values{"csrf_token": {token}, "name": {"Ada"}, "email": {"not-an-email"}, "message": {"hi"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	require.Equal(t, "invalid", doc.Find("#contact-form").AttrOr("data-status", ""))
	require.Equal(t, 1, doc.Find(`.field-error[data-field="email"]`).Length())
	require.Equal(t, "Ada", doc.Find(`input[name="name"]`).AttrOr("value", ""))

	rec = c.post("/contact", url.Values{"csrf_token": {token}, "name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello there"}}, true)
	doc = parseHTML(t, rec)
	require.Equal(t, "sent", doc.Find("#contact-form").AttrOr("data-status", ""))
	require.Empty(t, doc.Find(`input[name="name"]`).AttrOr("value", ""))

	rec = c.post("/contact", url.Values{"csrf_token": {token}, "name": {""}, "email": {""}, "message": {""}}, false)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestChatKeepsTranscriptInSession(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	token := csrfFrom(t, c.get("/"))

	rec := c.post("/chat", url.Values{"csrf_token": {token}, "query": {"What do you work on?"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)
	require.Equal(t, 1, doc.Find(".chat-user").Length())
	require.Contains(t, doc.Find(".chat-bot").Last().Text(), "What do you work on?")

	doc = parseHTML(t, c.get("/about"))
	require.Equal(t, 1, doc.Find("#chat-widget .chat-user").Length())

	rec = c.post("/chat/reset", url.Values{"csrf_token": {token}}, true)
	doc = parseHTML(t, rec)
	require.Equal(t, 0, doc.Find(".chat-user").Length())
	require.Equal(t, 1, doc.Find(".chat-bot").Length(), "greeting only")
}

func TestChatBackendFailureAppendsApology(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/chatbot") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"count":0,"results":[]}`)
	}))
	defer api.Close()
	cfg := testConfig()
	cfg.API.URL = api.URL + "/"
	c := newClient(t, newTestRouter(t, cfg))
	token := csrfFrom(t, c.get("/contact"))

	doc := parseHTML(t, c.post("/chat", url.Values{"csrf_token": {token}, "query": {"hello"}}, true))
	require.Equal(t, "Sorry, I encountered an error. Please try again later.", strings.TrimSpace(doc.Find(".chat-bot").Last().Text()))
}

func TestUnknownPathIs404(t *testing.T) {
	c := newClient(t, newTestRouter(t, testConfig()))
	rec := c.get("/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

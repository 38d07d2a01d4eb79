// Package content loads the static markdown pages (home, about) that frame
// the backend-driven lists.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no markdown file exists for a slug in any language.
var ErrNotFound = errors.New("content: not found")

// Page is one rendered markdown page.
type Page struct {
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Headline  string
	Body      template.HTML
	Skills    []Skill
	UpdatedAt time.Time
	SEO       SEO
}

// Skill is a proficiency bar shown on the about page.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type SEO struct {
	Title       string
	Description string
	OGImage     string
}

type frontMatter struct {
	Title     string  `yaml:"title"`
	Summary   string  `yaml:"summary"`
	Headline  string  `yaml:"headline"`
	Lang      string  `yaml:"lang"`
	UpdatedAt string  `yaml:"updated_at"`
	Skills    []Skill `yaml:"skills"`
	SEO       struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		OGImage     string `yaml:"og_image"`
	} `yaml:"seo"`
}

// Store reads <dir>/<lang>/<slug>.md and caches rendered pages.
type Store struct {
	dir      string
	fallback string
	ttl      time.Duration
	md       goldmark.Markdown
	policy   *bluemonday.Policy

	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// NewStore builds a store. fallback is the language tried when the requested one is missing.
func NewStore(dir, fallback string, ttl time.Duration) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "content"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		dir:      dir,
		fallback: fallback,
		ttl:      ttl,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer)),
		policy:   bluemonday.UGCPolicy(),
		items:    map[string]cacheEntry{},
	}
}

// Page returns the page for slug in lang, falling back to the store's default language.
func (s *Store) Page(slug, lang string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.ContainsAny(lang, `./\`) {
		lang = ""
	}
	key := lang + "|" + slug
	if p, ok := s.cached(key); ok {
		return p, nil
	}

	candidates := []string{lang}
	if s.fallback != "" && s.fallback != lang {
		candidates = append(candidates, s.fallback)
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		page, err := s.read(slug, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Page{}, err
		}
		s.store(key, page)
		return clonePage(page), nil
	}
	return Page{}, ErrNotFound
}

func (s *Store) read(slug, lang string) (Page, error) {
	file := filepath.Join(s.dir, lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", file, err)
	}

	page := Page{
		Slug:     slug,
		Lang:     firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:    strings.TrimSpace(front.Title),
		Summary:  strings.TrimSpace(front.Summary),
		Headline: strings.TrimSpace(front.Headline),
		Body:     template.HTML(s.policy.SanitizeBytes(buf.Bytes())),
		Skills:   clampSkills(front.Skills),
		SEO: SEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(front.UpdatedAt)); err == nil {
		page.UpdatedAt = t
	} else if info, err := os.Stat(file); err == nil {
		page.UpdatedAt = info.ModTime()
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func clampSkills(in []Skill) []Skill {
	out := make([]Skill, 0, len(in))
	for _, sk := range in {
		sk.Name = strings.TrimSpace(sk.Name)
		if sk.Name == "" {
			continue
		}
		if sk.Level < 0 {
			sk.Level = 0
		}
		if sk.Level > 100 {
			sk.Level = 100
		}
		out = append(out, sk)
	}
	return out
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func (s *Store) cached(key string) (Page, bool) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return Page{}, false
	}
	return clonePage(entry.page), true
}

func (s *Store) store(key string, page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = cacheEntry{page: clonePage(page), expires: time.Now().Add(s.ttl)}
}

func clonePage(p Page) Page {
	cp := p
	cp.Skills = append([]Skill(nil), p.Skills...)
	return cp
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

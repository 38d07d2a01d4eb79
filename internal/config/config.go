// Package config loads folio-web settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Server    Server
	API       API
	Lists     Lists
	Session   Session
	Content   Content
	Analytics Analytics
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

type Server struct {
	Port         string        `env:"FOLIO_WEB_PORT"`
	Env          string        `env:"FOLIO_WEB_ENV" envDefault:"dev"`
	Dev          bool          `env:"FOLIO_WEB_DEV"`
	TemplatesDir string        `env:"FOLIO_WEB_TEMPLATES" envDefault:"templates"`
	PublicDir    string        `env:"FOLIO_WEB_PUBLIC" envDefault:"public"`
	LocalesDir   string        `env:"FOLIO_WEB_LOCALES" envDefault:"locales"`
	BaseURL      string        `env:"FOLIO_WEB_BASE_URL"`
	Shutdown     time.Duration `env:"FOLIO_WEB_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// API describes the portfolio REST backend. An empty URL enables offline fixtures.
type API struct {
	URL      string        `env:"FOLIO_API_URL"`
	Timeout  time.Duration `env:"FOLIO_API_TIMEOUT" envDefault:"8s"`
	RetryMax int           `env:"FOLIO_API_RETRY_MAX" envDefault:"2"`
}

// Lists tunes the paginated list views.
type Lists struct {
	FetchTimeout      time.Duration `env:"FOLIO_FETCH_TIMEOUT" envDefault:"8s"`
	CacheTTL          time.Duration `env:"FOLIO_LIST_CACHE_TTL" envDefault:"30s"`
	ProjectsPerPage   int           `env:"FOLIO_PROJECTS_PER_PAGE" envDefault:"3"`
	ExperiencePerPage int           `env:"FOLIO_EXPERIENCE_PER_PAGE" envDefault:"3"`
	AchievementsPage  int           `env:"FOLIO_ACHIEVEMENTS_PER_PAGE" envDefault:"2"`
	CertificationPage int           `env:"FOLIO_CERTIFICATIONS_PER_PAGE" envDefault:"2"`
	PublicationsPage  int           `env:"FOLIO_PUBLICATIONS_PER_PAGE" envDefault:"3"`
	// FeaturedRequired is how many featured projects the home page must show. 0 disables the rule.
	FeaturedRequired int `env:"FOLIO_FEATURED_REQUIRED" envDefault:"0"`
}

type Session struct {
	SigningKey     string        `env:"FOLIO_WEB_SESSION_SIGNING_KEY"`
	ChatInactivity time.Duration `env:"FOLIO_CHAT_INACTIVITY" envDefault:"5m"`
	ChatHistoryMax int           `env:"FOLIO_CHAT_HISTORY_MAX" envDefault:"12"`
}

type Content struct {
	Dir      string        `env:"FOLIO_CONTENT_DIR" envDefault:"content"`
	CacheTTL time.Duration `env:"FOLIO_CONTENT_CACHE_TTL" envDefault:"5m"`
}

// Analytics holds client instrumentation surfaced to templates.
type Analytics struct {
	GA4MeasurementID string `env:"FOLIO_WEB_GA_MEASUREMENT_ID"`
	Debug            bool   `env:"FOLIO_WEB_ANALYTICS_DEBUG"`
}

// Load reads an optional .env file (existing variables win) and parses the environment.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Server.Port == "" {
		c.Server.Port = os.Getenv("PORT")
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	c.Server.Env = strings.ToLower(strings.TrimSpace(c.Server.Env))
	c.API.URL = strings.TrimSpace(c.API.URL)
	if c.API.URL != "" && !strings.HasSuffix(c.API.URL, "/") {
		c.API.URL += "/"
	}
}

// Prod reports whether the server runs in production mode.
func (c Config) Prod() bool { return c.Server.Env == "prod" }

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Server.Port }

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.API.URL != "" {
		u, err := url.Parse(c.API.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("FOLIO_API_URL must be an absolute URL, got %q", c.API.URL))
		}
	}
	if c.API.RetryMax < 0 {
		errs = append(errs, errors.New("FOLIO_API_RETRY_MAX must not be negative"))
	}
	if c.Lists.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FOLIO_FETCH_TIMEOUT must be positive"))
	}
	for name, size := range map[string]int{
		"FOLIO_PROJECTS_PER_PAGE":       c.Lists.ProjectsPerPage,
		"FOLIO_EXPERIENCE_PER_PAGE":     c.Lists.ExperiencePerPage,
		"FOLIO_ACHIEVEMENTS_PER_PAGE":   c.Lists.AchievementsPage,
		"FOLIO_CERTIFICATIONS_PER_PAGE": c.Lists.CertificationPage,
		"FOLIO_PUBLICATIONS_PER_PAGE":   c.Lists.PublicationsPage,
	} {
		if size <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, size))
		}
	}
	if c.Lists.FeaturedRequired < 0 {
		errs = append(errs, errors.New("FOLIO_FEATURED_REQUIRED must not be negative"))
	}
	if c.Session.ChatInactivity <= 0 {
		errs = append(errs, errors.New("FOLIO_CHAT_INACTIVITY must be positive"))
	}
	if c.Prod() && c.Session.SigningKey == "" {
		errs = append(errs, errors.New("FOLIO_WEB_SESSION_SIGNING_KEY is required in prod"))
	}
	return errors.Join(errs...)
}

// Package config loads the server configuration.
//
// Sources, highest priority first:
//  1. process environment;
//  2. an optional .env file (path from ENV_FILE, else ./.env);
//  3. env-default tags below.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Contact delivery modes.
const (
	ContactMailto  = "mailto"
	ContactSMTP    = "smtp"
	ContactEmailJS = "emailjs"
)

type Config struct {
	Env     string `env:"ENV" env-default:"local"`
	HTTP    HTTPConfig
	GitHub  GitHubConfig
	Views   ViewsConfig
	Session SessionConfig
	Contact ContactConfig
	SMTP    SMTPConfig
	EmailJS EmailJSConfig
	DoH     DoHConfig
	DB      DBConfig
	Admin   AdminConfig
	CORS    CORSConfig
}

// HTTPConfig is the public listener.
type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"20s"`
	StaticDir       string        `env:"STATIC_DIR" env-default:"./static"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// GitHubConfig is the upstream repository listing.
type GitHubConfig struct {
	Owner   string        `env:"GITHUB_OWNER" env-default:"Tibrahi"`
	Token   string        `env:"GITHUB_TOKEN"`
	APIURL  string        `env:"GITHUB_API_URL"`
	Timeout time.Duration `env:"GITHUB_TIMEOUT" env-default:"10s"`
	// CacheTTL is how long a fetched page is shared between visitors.
	CacheTTL time.Duration `env:"GITHUB_CACHE_TTL" env-default:"2m"`
}

// ViewsConfig sizes the three repository views.
type ViewsConfig struct {
	DashboardMaxAge     time.Duration `env:"DASHBOARD_MAX_AGE" env-default:"5m"`
	DashboardStep       int           `env:"DASHBOARD_STEP" env-default:"6"`
	ProjectsPageSize    int           `env:"PROJECTS_PAGE_SIZE" env-default:"6"`
	DeploymentsPageSize int           `env:"DEPLOYMENTS_PAGE_SIZE" env-default:"12"`
}

// SessionConfig controls visitor sessions and the views they own.
type SessionConfig struct {
	TTL          time.Duration `env:"SESSION_TTL" env-default:"30m"`
	SweepEvery   time.Duration `env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
	CookieName   string        `env:"SESSION_COOKIE" env-default:"portfolio_session"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" env-default:"false"`
	Max          int           `env:"SESSION_MAX" env-default:"10000"`
}

// ContactConfig selects how validated messages leave the server.
type ContactConfig struct {
	Mode         string        `env:"CONTACT_MODE" env-default:"mailto"`
	Recipient    string        `env:"CONTACT_RECIPIENT" env-default:"ibrahimtuyizere2@gmail.com"`
	DismissAfter time.Duration `env:"CONTACT_DISMISS_AFTER" env-default:"3s"`
	CheckMX      bool          `env:"CONTACT_CHECK_MX" env-default:"true"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port string `env:"SMTP_PORT" env-default:"587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
}

func (s SMTPConfig) Addr() string { return net.JoinHostPort(s.Host, s.Port) }

type EmailJSConfig struct {
	URL        string        `env:"EMAILJS_URL" env-default:"https://api.emailjs.com/api/v1.0/email/send"`
	ServiceID  string        `env:"EMAILJS_SERVICE_ID"`
	TemplateID string        `env:"EMAILJS_TEMPLATE_ID"`
	PublicKey  string        `env:"EMAILJS_PUBLIC_KEY"`
	Timeout    time.Duration `env:"EMAILJS_TIMEOUT" env-default:"10s"`
}

// DoHConfig is the DNS-over-HTTPS resolver used for MX checks.
type DoHConfig struct {
	URL      string        `env:"DOH_URL" env-default:"https://dns.google"`
	Timeout  time.Duration `env:"DOH_TIMEOUT" env-default:"3s"`
	CacheTTL time.Duration `env:"DOH_CACHE_TTL" env-default:"1h"`
}

type DBConfig struct {
	Path string `env:"DB_PATH" env-default:"./data/portfolio.db"`
}

// AdminConfig guards /admin. An empty Secret is replaced by a random one at startup.
type AdminConfig struct {
	Username  string        `env:"ADMIN_USERNAME" env-default:"admin"`
	Password  string        `env:"ADMIN_PASSWORD"`
	Secret    string        `env:"ADMIN_SECRET"`
	TokenTTL  time.Duration `env:"ADMIN_TOKEN_TTL" env-default:"24h"`
	Retention time.Duration `env:"VISITOR_RETENTION" env-default:"8760h"`
	// VisitorSalt keys the visitor IP hash; random per process when empty.
	VisitorSalt string `env:"VISITOR_SALT"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:8080"`
}

// IsProd reports whether the service runs in production.
func (c *Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// MustLoad panics when the configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the optional .env file, then the environment.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges and mode-specific requirements.
func (c *Config) Validate() error {
	switch {
	case c.GitHub.Owner == "":
		return errors.New("GITHUB_OWNER is required")
	case c.GitHub.Timeout <= 0:
		return errors.New("GITHUB_TIMEOUT must be positive")
	case c.Views.ProjectsPageSize < 1 || c.Views.ProjectsPageSize > 100:
		return fmt.Errorf("PROJECTS_PAGE_SIZE %d out of 1..100", c.Views.ProjectsPageSize)
	case c.Views.DeploymentsPageSize < 1 || c.Views.DeploymentsPageSize > 100:
		return fmt.Errorf("DEPLOYMENTS_PAGE_SIZE %d out of 1..100", c.Views.DeploymentsPageSize)
	case c.Views.DashboardStep < 1:
		return errors.New("DASHBOARD_STEP must be >= 1")
	case c.Session.TTL <= 0:
		return errors.New("SESSION_TTL must be positive")
	case c.Session.SweepEvery <= 0:
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	case c.Session.Max < 1:
		return errors.New("SESSION_MAX must be >= 1")
	case c.GitHub.CacheTTL < 0:
		return errors.New("GITHUB_CACHE_TTL must not be negative")
	case c.Contact.Recipient == "":
		return errors.New("CONTACT_RECIPIENT is required")
	case c.Contact.DismissAfter < 0:
		return errors.New("CONTACT_DISMISS_AFTER must not be negative")
	case c.Admin.Secret != "" && len(c.Admin.Secret) < 32:
		return errors.New("ADMIN_SECRET must be at least 32 characters")
	}

	for _, o := range c.CORS.Origins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must start with http:// or https://", o)
		}
	}

	switch c.Contact.Mode {
	case ContactMailto:
	case ContactSMTP:
		if c.SMTP.User == "" || c.SMTP.Pass == "" {
			return errors.New("SMTP_USER and SMTP_PASS are required when CONTACT_MODE=smtp")
		}
	case ContactEmailJS:
		if c.EmailJS.ServiceID == "" || c.EmailJS.TemplateID == "" || c.EmailJS.PublicKey == "" {
			return errors.New("EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY are required when CONTACT_MODE=emailjs")
		}
	default:
		return fmt.Errorf("unknown CONTACT_MODE %q", c.Contact.Mode)
	}

	if c.IsProd() && c.Admin.Password == "" {
		return errors.New("ADMIN_PASSWORD is required in production")
	}
	// anonymous callers share 60 upstream requests an hour
	if c.IsProd() && c.GitHub.Token == "" {
		return errors.New("GITHUB_TOKEN is required in production")
	}
	return nil
}

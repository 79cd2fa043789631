// Package web serves the portfolio: full pages, HTMX fragments, a small JSON API and the admin area.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Tibrahi/portfolio/internal/contact"
	"github.com/Tibrahi/portfolio/internal/storage/sqlite"
)

// Options configures the router.
type Options struct {
	Logger         *slog.Logger
	SessionCookie  string
	SecureCookies  bool
	RequestTimeout time.Duration
	CORSOrigins    []string
	StaticDir      string
	// HashSalt is mixed into visitor IP hashes.
	HashSalt string
	Admin    AdminOptions
}

// VisitorStore is the visitor tracking storage used by the middleware and the admin area.
type VisitorStore interface {
	VisitRecorder
	Recent(ctx context.Context, limit int) ([]sqlite.Visit, error)
	Stats(ctx context.Context, now time.Time) (*sqlite.VisitorStats, error)
	Cleanup(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
}

// MessageLister reads archived contact messages.
type MessageLister interface {
	List(ctx context.Context, limit int) ([]contact.Archived, error)
}

// Deps are the collaborators behind the handlers. Visitors, Messages, Requests,
// MetricsHandler and Health are optional.
type Deps struct {
	Catalog        *Catalog
	Sessions       *Sessions
	Contact        *contact.Service
	Visitors       VisitorStore
	Messages       MessageLister
	Requests       RequestObserver
	MetricsHandler http.Handler
	Health         func(ctx context.Context) error
}

// Server holds handler state.
type Server struct {
	opts     Options
	catalog  *Catalog
	sessions *Sessions
	contact  *contact.Service
	visits   VisitorStore
	messages MessageLister
	health   func(ctx context.Context) error
	admin    *adminAuth
	now      func() time.Time
}

// NewRouter wires middleware and routes.
func NewRouter(opts Options, deps Deps) (*gin.Engine, error) {
	switch {
	case deps.Catalog == nil:
		return nil, errors.New("web: catalog is required")
	case deps.Sessions == nil:
		return nil, errors.New("web: sessions are required")
	case deps.Contact == nil:
		return nil, errors.New("web: contact service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = "portfolio_session"
	}

	admin, err := newAdminAuth(opts.Admin)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		catalog:  deps.Catalog,
		sessions: deps.Sessions,
		contact:  deps.Contact,
		visits:   deps.Visitors,
		messages: deps.Messages,
		health:   deps.Health,
		admin:    admin,
		now:      time.Now,
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), RequestID(opts.Logger), Logging())
	if deps.Requests != nil {
		r.Use(Instrument(deps.Requests))
	}
	if opts.RequestTimeout > 0 {
		r.Use(Timeout(opts.RequestTimeout))
	}
	if s.visits != nil {
		r.Use(s.trackVisitors())
	}

	if opts.StaticDir != "" {
		if fi, err := os.Stat(opts.StaticDir); err == nil && fi.IsDir() {
			r.Static("/static", opts.StaticDir)
		}
	}

	r.GET("/healthz", s.healthz)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}
	r.GET("/privacy", s.privacy)
	r.POST("/theme/toggle", s.toggleTheme)

	site := r.Group("/", s.sessionMiddleware())
	{
		site.GET("/", s.index)
		site.GET("/sections/:name", s.section)

		site.GET("/views/:view", s.viewFragment)
		site.POST("/views/:view/refresh", s.viewAction(opRefresh))
		site.POST("/views/:view/more", s.viewAction(opMore))
		site.POST("/views/:view/retry", s.viewAction(opRetry))

		site.GET("/contact/form", s.contactForm)
		site.POST("/contact", s.submitContact)
		site.POST("/contact/check-email", s.checkEmail)
	}

	api := r.Group("/api")
	if mw := corsMiddleware(opts.CORSOrigins); mw != nil {
		api.Use(mw)
		// preflights need a route for the group middleware to run
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	api.Use(s.sessionMiddleware())
	{
		api.GET("/views/:view", s.apiView)
		api.POST("/views/:view/refresh", s.apiViewAction(opRefresh))
		api.POST("/views/:view/more", s.apiViewAction(opMore))
		api.POST("/views/:view/retry", s.apiViewAction(opRetry))
		api.POST("/contact", s.apiContact)
	}

	s.registerAdmin(r)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "not-found.html", s.page(c, "", nil))
	})

	return r, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", s.page(c, "", nil))
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("15:04:05")
	},
	"seconds": func(d time.Duration) int { return int(d.Seconds()) },
	"millis":  func(d time.Duration) int64 { return d.Milliseconds() },
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Tibrahi/portfolio/internal/contact"
	"github.com/Tibrahi/portfolio/internal/pkg/log"
	"github.com/Tibrahi/portfolio/internal/storage/sqlite"
)

const (
	adminCookie = "admin_token"
	adminPath   = "/admin"
	tokenIssuer = "portfolio"
)

// AdminOptions configures the admin area. An empty Password disables it.
type AdminOptions struct {
	Username  string
	Password  string
	Secret    []byte
	TokenTTL  time.Duration
	Retention time.Duration
}

type adminAuth struct {
	opts AdminOptions
	now  func() time.Time
}

func newAdminAuth(o AdminOptions) (*adminAuth, error) {
	if o.Password == "" {
		return nil, nil
	}
	if len(o.Secret) < 32 {
		return nil, errors.New("web: admin secret must be at least 32 bytes")
	}
	if o.Username == "" {
		o.Username = "admin"
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	return &adminAuth{opts: o, now: time.Now}, nil
}

func (a *adminAuth) checkCredentials(user, pass string) bool {
	u := subtle.ConstantTimeCompare([]byte(user), []byte(a.opts.Username))
	p := subtle.ConstantTimeCompare([]byte(pass), []byte(a.opts.Password))
	return u&p == 1
}

func (a *adminAuth) issue() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   a.opts.Username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.opts.TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

func (a *adminAuth) verify(token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return a.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return err
	}
	if claims.Subject != a.opts.Username {
		return errors.New("admin token subject mismatch")
	}
	return nil
}

func (s *Server) registerAdmin(r *gin.Engine) {
	if s.admin == nil {
		return
	}

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"Title": "Admin Login"})
	})
	r.POST("/admin/login", s.adminLogin)
	r.GET("/admin/logout", s.adminLogout)

	g := r.Group(adminPath, s.requireAdmin())
	g.GET("/dashboard", s.adminDashboard)
	g.GET("/api/stats", s.adminStatsJSON)
	g.GET("/visitors", s.adminVisitors)
	g.GET("/messages", s.adminMessages)
	g.GET("/export/stats", s.adminExport)
	g.POST("/privacy/cleanup", s.adminCleanup)
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || s.admin.verify(token) != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setAdminCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     adminCookie,
		Value:    value,
		Path:     adminPath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) adminLogin(c *gin.Context) {
	const op = "web/admin/adminLogin"
	lg := log.From(c.Request.Context())
	who := slog.String("client", s.hashIP(c.ClientIP()))

	if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
		lg.Warn("admin_login_failed", slog.String("op", op), who)
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"Title": "Admin Login", "Error": "Invalid credentials"})
		return
	}

	token, err := s.admin.issue()
	if err != nil {
		lg.Error("admin_token_failed", slog.String("op", op), slog.String("err", err.Error()))
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"Error": "Login failed"})
		return
	}
	s.setAdminCookie(c, token, int(s.admin.opts.TokenTTL.Seconds()))
	lg.Info("admin_login", slog.String("op", op), who)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) adminLogout(c *gin.Context) {
	s.setAdminCookie(c, "", -1)
	log.From(c.Request.Context()).Info("admin_logout", slog.String("client", s.hashIP(c.ClientIP())))
	c.Redirect(http.StatusFound, "/admin/login")
}

func (s *Server) adminStats(ctx context.Context) (*sqlite.VisitorStats, error) {
	if s.visits == nil {
		return &sqlite.VisitorStats{}, nil
	}
	return s.visits.Stats(ctx, s.now())
}

func (s *Server) recentMessages(ctx context.Context, limit int) ([]contact.Archived, error) {
	if s.messages == nil {
		return nil, nil
	}
	return s.messages.List(ctx, limit)
}

func (s *Server) adminFailed(c *gin.Context, event, msg string, err error) {
	log.From(c.Request.Context()).Error(event, slog.String("err", err.Error()))
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"Error": msg})
}

func (s *Server) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := s.adminStats(ctx)
	if err != nil {
		s.adminFailed(c, "admin_stats_failed", "Failed to load statistics", err)
		return
	}
	msgs, err := s.recentMessages(ctx, 10)
	if err != nil {
		s.adminFailed(c, "admin_messages_failed", "Failed to load messages", err)
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"Stats": stats, "Messages": msgs})
}

func (s *Server) adminStatsJSON(c *gin.Context) {
	stats, err := s.adminStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) adminVisitors(c *gin.Context) {
	var visits []sqlite.Visit
	if s.visits != nil {
		var err error
		if visits, err = s.visits.Recent(c.Request.Context(), 200); err != nil {
			s.adminFailed(c, "admin_visitors_failed", "Failed to load visitors", err)
			return
		}
	}
	c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"Visitors": visits})
}

func (s *Server) adminMessages(c *gin.Context) {
	msgs, err := s.recentMessages(c.Request.Context(), 200)
	if err != nil {
		s.adminFailed(c, "admin_messages_failed", "Failed to load messages", err)
		return
	}
	c.HTML(http.StatusOK, "admin-messages.html", gin.H{"Messages": msgs})
}

func (s *Server) adminExport(c *gin.Context) {
	stats, err := s.adminStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	log.From(c.Request.Context()).Info("admin_export", slog.String("client", s.hashIP(c.ClientIP())))
	c.JSON(http.StatusOK, stats)
}

// adminCleanup applies the visitor retention window immediately.
func (s *Server) adminCleanup(c *gin.Context) {
	if s.visits == nil || s.admin.opts.Retention <= 0 {
		c.JSON(http.StatusOK, gin.H{"removed": 0})
		return
	}
	n, err := s.visits.Cleanup(c.Request.Context(), s.now(), s.admin.opts.Retention)
	if err != nil {
		log.From(c.Request.Context()).Error("visitor_cleanup_failed", slog.String("err", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

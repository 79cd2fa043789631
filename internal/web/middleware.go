package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tibrahi/portfolio/internal/pkg/log"
	"github.com/Tibrahi/portfolio/internal/storage/sqlite"
)

const (
	headerRequestID = "X-Request-Id"
	ctxSession      = "session"
)

// RequestID propagates X-Request-Id or mints one, and stores a request-scoped
// logger in the request context.
func RequestID(l *slog.Logger) gin.HandlerFunc {
	if l == nil {
		l = slog.Default()
	}
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)

		ctx := log.Into(c.Request.Context(), l.With(slog.String("request_id", rid)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Logging writes one "http" record per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		log.From(ctx).LogAttrs(ctx, slog.LevelInfo, "http",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("dur", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

// Timeout bounds the request context.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestObserver counts requests by route.
type RequestObserver interface {
	ObserveRequest(route string, code int)
}

// Instrument reports every request to o.
func Instrument(o RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		o.ObserveRequest(c.FullPath(), c.Writer.Status())
	}
}

// sessionMiddleware attaches the visitor's session, creating one when the cookie
// is missing or its session was evicted.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if id, err := c.Cookie(s.opts.SessionCookie); err == nil {
			sess, _ = s.sessions.Get(id)
		}
		if sess == nil {
			sess = s.sessions.Create()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     s.opts.SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(ctxSession, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *Session {
	return c.MustGet(ctxSession).(*Session)
}

// VisitRecorder stores tracked visits.
type VisitRecorder interface {
	Record(ctx context.Context, v sqlite.Visit) error
}

// untracked paths never reach the visitors table.
var untracked = []string{"/static/", "/admin", "/api/", "/healthz", "/metrics", "/favicon", "/privacy"}

// trackVisitors records page views with a salted, truncated IP hash and honors
// Do Not Track. The write happens off the request path.
func (s *Server) trackVisitors() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || isUntracked(path) {
			c.Next()
			return
		}

		v := sqlite.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
			Path:      path,
			VisitedAt: s.now(),
		}
		lg := log.From(c.Request.Context())
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.visits.Record(ctx, v); err != nil {
				lg.Warn("visit_record_failed", slog.String("err", err.Error()))
			}
		}()
		c.Next()
	}
}

func isUntracked(path string) bool {
	for _, p := range untracked {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// hashIP is stable per IP for one salt.
func (s *Server) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.opts.HashSalt))
	return hex.EncodeToString(sum[:])[:16]
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tibrahi/portfolio/internal/config"
	"github.com/Tibrahi/portfolio/internal/contact"
	"github.com/Tibrahi/portfolio/internal/github"
	"github.com/Tibrahi/portfolio/internal/metrics"
	"github.com/Tibrahi/portfolio/internal/pkg/log"
	"github.com/Tibrahi/portfolio/internal/storage/sqlite"
	"github.com/Tibrahi/portfolio/internal/web"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

func main() {
	cfg := config.MustLoad()

	lg := setupLogger(cfg)
	slog.SetDefault(lg)
	lg.Info("starting portfolio", slog.String("env", cfg.Env))

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rootCtx = log.Into(rootCtx, lg)

	if err := run(rootCtx, cfg, lg); err != nil {
		lg.Error("portfolio_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	rootCancel()
	lg.Info("service_stopped")
}

func run(ctx context.Context, cfg *config.Config, lg *slog.Logger) error {
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := sqlite.Open(dbCtx, cfg.DB.Path)
	dbCancel()
	if err != nil {
		return err
	}
	defer db.Close()
	lg.Info("sqlite_opened", slog.String("path", cfg.DB.Path))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gh, err := github.NewClient(github.Config{
		BaseURL: cfg.GitHub.APIURL,
		Token:   cfg.GitHub.Token,
		Timeout: cfg.GitHub.Timeout,
	})
	if err != nil {
		return err
	}
	if cfg.GitHub.Token == "" {
		lg.Warn("github_anonymous", slog.String("hint", "set GITHUB_TOKEN to raise the rate limit"))
	}

	messages := sqlite.NewMessageStore(db)
	svc, err := newContactService(cfg, messages, m)
	if err != nil {
		return err
	}
	lg.Info("contact_ready", slog.String("mode", svc.Mode()))

	cat, err := web.NewCatalog(cfg.GitHub.Owner, web.ViewSizes{
		DashboardStep:       cfg.Views.DashboardStep,
		ProjectsPageSize:    cfg.Views.ProjectsPageSize,
		DeploymentsPageSize: cfg.Views.DeploymentsPageSize,
		DashboardMaxAge:     cfg.Views.DashboardMaxAge,
	}, github.NewPageCache(gh, cfg.GitHub.CacheTTL), m)
	if err != nil {
		return err
	}
	sessions := web.NewSessions(cat, cfg.Session.TTL, m, web.WithSessionLimit(cfg.Session.Max))
	go sessions.Run(ctx, cfg.Session.SweepEvery)

	visitors := sqlite.NewVisitorStore(db)
	go cleanupVisitors(ctx, visitors, cfg.Admin.Retention)

	admin := web.AdminOptions{
		Username:  cfg.Admin.Username,
		Password:  cfg.Admin.Password,
		Secret:    []byte(cfg.Admin.Secret),
		TokenTTL:  cfg.Admin.TokenTTL,
		Retention: cfg.Admin.Retention,
	}
	if len(admin.Secret) == 0 {
		admin.Secret = []byte(randomToken())
	}
	if admin.Password == "" && cfg.Env == envLocal {
		admin.Password = randomToken()[:16]
		lg.Info("admin_dev_password", slog.String("username", admin.Username), slog.String("password", admin.Password))
	}
	salt := cfg.Admin.VisitorSalt
	if salt == "" {
		salt = randomToken()
	}

	router, err := web.NewRouter(web.Options{
		Logger:         lg,
		SessionCookie:  cfg.Session.CookieName,
		SecureCookies:  cfg.Session.SecureCookie,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.CORS.Origins,
		StaticDir:      cfg.HTTP.StaticDir,
		HashSalt:       salt,
		Admin:          admin,
	}, web.Deps{
		Catalog:        cat,
		Sessions:       sessions,
		Contact:        svc,
		Visitors:       visitors,
		Messages:       messages,
		Requests:       m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:         db.Ping,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		lg.Info("http_listen_start", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-ctx.Done():
		lg.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http_force_stop", slog.String("err", err.Error()))
		return srv.Close()
	}
	lg.Info("http_stopped")
	return nil
}

func newContactService(cfg *config.Config, archive contact.Archive, m *metrics.Metrics) (*contact.Service, error) {
	var mx contact.MXChecker
	if cfg.Contact.CheckMX {
		mx = contact.NewDoHResolver(cfg.DoH.URL, cfg.DoH.Timeout, cfg.DoH.CacheTTL)
	}

	var relay contact.Relay
	switch cfg.Contact.Mode {
	case config.ContactSMTP:
		relay = contact.NewSMTPRelay(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass)
	case config.ContactEmailJS:
		relay = contact.NewEmailJSRelay(cfg.EmailJS.URL, cfg.EmailJS.ServiceID, cfg.EmailJS.TemplateID, cfg.EmailJS.PublicKey, cfg.EmailJS.Timeout)
	}

	return contact.NewService(contact.ServiceConfig{
		Mode:         cfg.Contact.Mode,
		Recipient:    cfg.Contact.Recipient,
		DismissAfter: cfg.Contact.DismissAfter,
	}, contact.NewValidator(mx), relay, contact.WithArchive(archive), contact.WithObserver(m))
}

// cleanupVisitors applies the retention window at startup and then daily.
func cleanupVisitors(ctx context.Context, store *sqlite.VisitorStore, retention time.Duration) {
	if retention <= 0 {
		return
	}
	lg := log.From(ctx)
	sweep := func() {
		n, err := store.Cleanup(ctx, time.Now(), retention)
		if err != nil {
			lg.Error("visitor_cleanup_failed", slog.String("err", err.Error()))
			return
		}
		if n > 0 {
			lg.Info("visitor_cleanup", slog.Int64("removed", n))
		}
	}

	sweep()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var lg *slog.Logger

	switch {
	case cfg.IsProd():
		lg = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case cfg.Env == envDev:
		lg = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		lg = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return lg
}

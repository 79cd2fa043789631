package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Tibrahi/portfolio/internal/catalog"
	"github.com/Tibrahi/portfolio/internal/contact"
	"github.com/Tibrahi/portfolio/internal/github"
	"github.com/Tibrahi/portfolio/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubFetcher serves canned pages keyed by page number.
type stubFetcher struct {
	mu    sync.Mutex
	pages map[int]catalog.Page
	err   error
	calls []int
}

func (f *stubFetcher) FetchPage(ctx context.Context, _ string, page, _ int) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if err := ctx.Err(); err != nil {
		return catalog.Page{}, err
	}
	if f.err != nil {
		return catalog.Page{}, f.err
	}
	return f.pages[page], nil
}

func (f *stubFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func repo(id int64, stars int) catalog.RawRecord {
	name := fmt.Sprintf("repo-%d", id)
	src := "https://github.com/Tibrahi/" + name
	return catalog.RawRecord{ID: &id, Name: &name, HTMLURL: &src, Stars: &stars}
}

func repos(from, to int64) []catalog.RawRecord {
	var out []catalog.RawRecord
	for id := from; id <= to; id++ {
		out = append(out, repo(id, int(id)))
	}
	return out
}

type stubRelay struct {
	mu    sync.Mutex
	err   error
	mails []contact.Mail
}

func (r *stubRelay) Name() string { return "stub" }

func (r *stubRelay) Send(_ context.Context, m contact.Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, m)
	return r.err
}

type memVisits struct {
	mu      sync.Mutex
	visits  []sqlite.Visit
	cleaned time.Duration
}

func (m *memVisits) Record(_ context.Context, v sqlite.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits = append(m.visits, v)
	return nil
}

func (m *memVisits) Recent(_ context.Context, limit int) ([]sqlite.Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sqlite.Visit(nil), m.visits[:min(limit, len(m.visits))]...), nil
}

func (m *memVisits) Stats(ctx context.Context, _ time.Time) (*sqlite.VisitorStats, error) {
	recent, _ := m.Recent(ctx, 50)
	return &sqlite.VisitorStats{TotalVisitors: int64(len(recent)), RecentVisitors: recent}, nil
}

func (m *memVisits) Cleanup(_ context.Context, _ time.Time, retention time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaned = retention
	return 3, nil
}

func (m *memVisits) snapshot() []sqlite.Visit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sqlite.Visit(nil), m.visits...)
}

type memMessages struct {
	msgs []contact.Archived
}

func (m *memMessages) List(_ context.Context, limit int) ([]contact.Archived, error) {
	return m.msgs[:min(limit, len(m.msgs))], nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	t        *testing.T
	router   *gin.Engine
	fetcher  *stubFetcher
	relay    *stubRelay
	visits   *memVisits
	sessions *Sessions
	health   error
}

type harnessConfig struct {
	mode  string
	opts  func(*Options)
	pages map[int]catalog.Page
	// cacheTTL puts the shared page cache in front of the fetcher.
	cacheTTL     time.Duration
	sessionLimit int
}

func newHarness(t *testing.T, hc harnessConfig) *harness {
	t.Helper()
	if hc.mode == "" {
		hc.mode = contact.ModeMailto
	}
	h := &harness{
		t:       t,
		fetcher: &stubFetcher{pages: hc.pages},
		relay:   &stubRelay{},
		visits:  &memVisits{},
	}

	var fetcher catalog.Fetcher = h.fetcher
	if hc.cacheTTL > 0 {
		fetcher = github.NewPageCache(h.fetcher, hc.cacheTTL)
	}
	cat, err := NewCatalog("Tibrahi", ViewSizes{
		DashboardStep:       6,
		ProjectsPageSize:    2,
		DeploymentsPageSize: 2,
		DashboardMaxAge:     5 * time.Minute,
	}, fetcher, nil)
	require.NoError(t, err)
	h.sessions = NewSessions(cat, time.Hour, nil, WithSessionLimit(hc.sessionLimit))

	svc, err := contact.NewService(contact.ServiceConfig{
		Mode:         hc.mode,
		Recipient:    "ibrahimtuyizere2@gmail.com",
		DismissAfter: 3 * time.Second,
	}, contact.NewValidator(nil), h.relay)
	require.NoError(t, err)

	opts := Options{
		SessionCookie: "portfolio_session",
		HashSalt:      "pepper",
		Admin: AdminOptions{
			Username:  "admin",
			Password:  "hunter22",
			Secret:    []byte(testSecret),
			TokenTTL:  time.Hour,
			Retention: 24 * time.Hour,
		},
		CORSOrigins: []string{"https://tibrahi.dev"},
	}
	if hc.opts != nil {
		hc.opts(&opts)
	}

	h.router, err = NewRouter(opts, Deps{
		Catalog:  cat,
		Sessions: h.sessions,
		Contact:  svc,
		Visitors: h.visits,
		Messages: &memMessages{msgs: []contact.Archived{{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Mode: "mailto"}}},
		Health:   func(context.Context) error { return h.health },
	})
	require.NoError(t, err)
	return h
}

type request struct {
	ctx     context.Context
	method  string
	path    string
	form    url.Values
	json    string
	cookies []*http.Cookie
	headers map[string]string
}

func (h *harness) do(r request) *httptest.ResponseRecorder {
	h.t.Helper()
	if r.method == "" {
		r.method = http.MethodGet
	}
	var req *http.Request
	switch {
	case r.form != nil:
		req = httptest.NewRequest(r.method, r.path, strings.NewReader(r.form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case r.json != "":
		req = httptest.NewRequest(r.method, r.path, strings.NewReader(r.json))
		req.Header.Set("Content-Type", "application/json")
	default:
		req = httptest.NewRequest(r.method, r.path, nil)
	}
	if r.ctx != nil {
		req = req.WithContext(r.ctx)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// session opens a visitor session and returns its cookie.
func (h *harness) session() *http.Cookie {
	h.t.Helper()
	w := h.do(request{path: "/sections/about"})
	c := cookieNamed(w, "portfolio_session")
	require.NotNil(h.t, c)
	return c
}

func countCards(body string) int {
	return strings.Count(body, `<li class="card">`)
}

// Package metrics exposes the portfolio's prometheus collectors.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

// Fetch outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics holds every collector. It satisfies catalog.Observer and contact.Observer.
type Metrics struct {
	fetches      *prometheus.CounterVec
	fetchSeconds *prometheus.HistogramVec
	submissions  *prometheus.CounterVec
	sessions     prometheus.Gauge
	requests     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "repo_fetch_total",
			Help:      "Repository page fetches by view and outcome.",
		}, []string{"view", "outcome"}),
		fetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "repo_fetch_seconds",
			Help:      "Latency of repository page fetches.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"view"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by delivery mode and outcome.",
		}, []string{"mode", "outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "active_sessions",
			Help:      "Visitor sessions currently holding mounted views.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.fetches, m.fetchSeconds, m.submissions, m.sessions, m.requests)
	return m
}

// ObserveFetch implements catalog.Observer.
func (m *Metrics) ObserveFetch(view string, err error, took time.Duration) {
	m.fetches.WithLabelValues(view, FetchOutcome(err)).Inc()
	m.fetchSeconds.WithLabelValues(view).Observe(took.Seconds())
}

// ObserveSubmission implements contact.Observer.
func (m *Metrics) ObserveSubmission(mode, outcome string) {
	m.submissions.WithLabelValues(mode, outcome).Inc()
}

// SetActiveSessions reports the live session count.
func (m *Metrics) SetActiveSessions(n int) {
	m.sessions.Set(float64(n))
}

// ObserveRequest counts one served request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveRequest(route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// FetchOutcome classifies a fetch error for the outcome label.
func FetchOutcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var te *catalog.TransportError
	if errors.As(err, &te) {
		switch {
		case te.Timeout:
			return OutcomeTimeout
		case te.StatusCode == http.StatusForbidden, te.StatusCode == http.StatusTooManyRequests:
			return OutcomeRateLimited
		}
	}
	return OutcomeError
}

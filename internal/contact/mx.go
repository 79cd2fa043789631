package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	dnsTypeMX     = 15
	dnsRcodeOK    = 0
	dnsRcodeNXDom = 3
)

// dohResponse is the subset of the application/dns-json answer we read.
type dohResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

type mxEntry struct {
	ok      bool
	expires time.Time
}

// DoHResolver answers MX questions over DNS-over-HTTPS
// (GET {base}/resolve?name={domain}&type=MX). Answers are cached per domain and
// concurrent lookups of one domain share a single request.
type DoHResolver struct {
	base   string
	client *http.Client
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]mxEntry
}

// NewDoHResolver builds a resolver for base (e.g. https://dns.google).
func NewDoHResolver(base string, timeout, ttl time.Duration) *DoHResolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DoHResolver{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]mxEntry),
	}
}

// HasMX reports whether domain publishes at least one MX record. NXDOMAIN is a
// definite "no"; transport failures and SERVFAIL are returned as errors.
func (r *DoHResolver) HasMX(ctx context.Context, domain string) (bool, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false, nil
	}

	if ok, hit := r.cached(domain); hit {
		return ok, nil
	}

	v, err, _ := r.group.Do(domain, func() (any, error) {
		ok, err := r.lookup(ctx, domain)
		if err != nil {
			return false, err
		}
		r.store(domain, ok)
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *DoHResolver) cached(domain string) (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.cache[domain]
	if !ok {
		return false, false
	}
	if !r.now().Before(e.expires) {
		delete(r.cache, domain)
		return false, false
	}
	return e.ok, true
}

func (r *DoHResolver) store(domain string, ok bool) {
	if r.ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.cache[domain] = mxEntry{ok: ok, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
}

func (r *DoHResolver) lookup(ctx context.Context, domain string) (bool, error) {
	q := url.Values{}
	q.Set("name", domain)
	q.Set("type", "MX")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+"/resolve?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("build doh request: %w", err)
	}
	req.Header.Set("Accept", "application/dns-json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("doh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("doh status %d", resp.StatusCode)
	}

	var body dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode doh answer: %w", err)
	}

	switch body.Status {
	case dnsRcodeOK:
	case dnsRcodeNXDom:
		return false, nil
	default:
		return false, fmt.Errorf("doh rcode %d", body.Status)
	}

	for _, a := range body.Answer {
		if a.Type == dnsTypeMX && a.Data != "" {
			return true, nil
		}
	}
	return false, nil
}

// Package github lists a user's public repositories page by page.
package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v75/github"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

const defaultTimeout = 10 * time.Second

// Config configures the GitHub client.
type Config struct {
	// BaseURL overrides https://api.github.com/ (GitHub Enterprise, tests).
	BaseURL string
	// Token is optional; anonymous calls are limited to 60 requests an hour.
	Token string
	// Timeout bounds every page request.
	Timeout time.Duration
}

// Client handles GitHub API interactions
type Client struct {
	gh      *gh.Client
	timeout time.Duration
}

// NewClient creates a new GitHub API client
func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := gh.NewClient(&http.Client{Timeout: 2 * timeout})
	if cfg.Token != "" {
		c = c.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base url %q: %w", cfg.BaseURL, err)
		}
		c.BaseURL = u
	}

	return &Client{gh: c, timeout: timeout}, nil
}

// FetchPage requests GET /users/{owner}/repos?page={page}&per_page={size}&sort=updated.
func (c *Client) FetchPage(ctx context.Context, owner string, page, size int) (catalog.Page, error) {
	const op = "github.FetchPage"

	if err := catalog.ValidateRequest(owner, page, size); err != nil {
		return catalog.Page{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	repos, resp, err := c.gh.Repositories.ListByUser(ctx, owner, &gh.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{Page: page, PerPage: size},
	})
	if err != nil {
		return catalog.Page{}, toTransportError(op, err)
	}

	out := catalog.Page{Records: make([]catalog.RawRecord, 0, len(repos))}
	for _, r := range repos {
		out.Records = append(out.Records, toRaw(r))
	}

	if resp != nil && resp.Header.Get("Link") != "" {
		out.HasMore = resp.NextPage != 0
	} else {
		out.HasMore = len(repos) == size
	}
	return out, nil
}

func toRaw(r *gh.Repository) catalog.RawRecord {
	raw := catalog.RawRecord{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Language:    r.Language,
		Topics:      r.Topics,
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		Watchers:    r.WatchersCount,
		Homepage:    r.Homepage,
		HTMLURL:     r.HTMLURL,
		Archived:    r.Archived,
		Fork:        r.Fork,
		Private:     r.Private,
	}
	if r.UpdatedAt != nil {
		t := r.UpdatedAt.Time
		raw.UpdatedAt = &t
	}
	return raw
}

func toTransportError(op string, err error) *catalog.TransportError {
	te := &catalog.TransportError{Op: op, Err: err}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		te.Timeout = true
	case errors.As(err, &rateErr):
		te.StatusCode = statusOf(rateErr.Response, http.StatusForbidden)
	case errors.As(err, &abuseErr):
		te.StatusCode = statusOf(abuseErr.Response, http.StatusForbidden)
	case errors.As(err, &respErr):
		te.StatusCode = statusOf(respErr.Response, http.StatusBadGateway)
	case errors.As(err, &netErr) && netErr.Timeout():
		te.Timeout = true
	}
	return te
}

func statusOf(resp *http.Response, fallback int) int {
	if resp == nil {
		return fallback
	}
	return resp.StatusCode
}

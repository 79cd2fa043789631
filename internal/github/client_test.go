package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

const twoRepos = `[
  {"id": 1, "name": "CineVault", "description": "movie discovery", "language": "JavaScript",
   "topics": ["react", "tailwindcss"], "stargazers_count": 4, "forks_count": 1, "watchers_count": 4,
   "homepage": "https://cine-vault-two.vercel.app/", "html_url": "https://github.com/Tibrahi/CineVault",
   "archived": false, "fork": false, "private": false, "updated_at": "2025-05-01T10:00:00Z"},
  {"id": 2, "name": "awesome-list", "description": null, "language": null,
   "stargazers_count": 0, "forks_count": 0, "watchers_count": 0,
   "homepage": null, "html_url": "https://github.com/Tibrahi/awesome-list",
   "archived": false, "fork": true, "private": false, "updated_at": "2024-01-01T00:00:00Z"}
]`

func newTestClient(t *testing.T, h http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestFetchPage_RequestShapeAndDecoding(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/Tibrahi/repos", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "2", r.URL.Query().Get("per_page"))
		require.Equal(t, "updated", r.URL.Query().Get("sort"))
		require.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, twoRepos)
	}, Config{Token: "s3cret"})

	page, err := c.FetchPage(context.Background(), "Tibrahi", 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	require.True(t, page.HasMore, "a full page without a Link header may have more")

	rec, err := page.Records[0].Record()
	require.NoError(t, err)
	require.Equal(t, "CineVault", rec.Name)
	require.Equal(t, []string{"react", "tailwindcss"}, rec.Topics)
	require.Equal(t, "https://cine-vault-two.vercel.app/", rec.Homepage)
	require.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), rec.UpdatedAt)

	forkRec, err := page.Records[1].Record()
	require.NoError(t, err)
	require.True(t, forkRec.Fork)
	require.Empty(t, forkRec.Description)
	require.Empty(t, forkRec.Language)
}

func TestFetchPage_HasMoreFromLinkHeader(t *testing.T) {
	t.Parallel()

	var base string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/users/Tibrahi/repos?page=2&per_page=6>; rel="next", <%s/users/Tibrahi/repos?page=2&per_page=6>; rel="last"`, base, base))
		default:
			w.Header().Set("Link", fmt.Sprintf(`<%s/users/Tibrahi/repos?page=1&per_page=6>; rel="first"`, base))
		}
		fmt.Fprint(w, twoRepos)
	}, Config{})
	base = c.gh.BaseURL.String()

	p1, err := c.FetchPage(context.Background(), "Tibrahi", 1, 6)
	require.NoError(t, err)
	require.True(t, p1.HasMore, "rel=next present")

	p2, err := c.FetchPage(context.Background(), "Tibrahi", 2, 6)
	require.NoError(t, err)
	require.False(t, p2.HasMore, "Link header without rel=next")
}

func TestFetchPage_ShortPageWithoutLinkHeader(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, twoRepos)
	}, Config{})

	page, err := c.FetchPage(context.Background(), "Tibrahi", 1, 6)
	require.NoError(t, err)
	require.False(t, page.HasMore)
}

func TestFetchPage_StatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		message string
	}{
		{"not found", http.StatusNotFound, "GitHub account not found."},
		{"server error", http.StatusInternalServerError, "GitHub API error: 500"},
		{"unavailable", http.StatusServiceUnavailable, "GitHub API error: 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			}, Config{})

			_, err := c.FetchPage(context.Background(), "Tibrahi", 1, 6)
			var te *catalog.TransportError
			require.ErrorAs(t, err, &te)
			require.Equal(t, tt.status, te.StatusCode)
			require.Equal(t, tt.message, catalog.UserMessage(err))
		})
	}
}

func TestFetchPage_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := c.FetchPage(context.Background(), "Tibrahi", 1, 6)
	var te *catalog.TransportError
	require.ErrorAs(t, err, &te)
	require.True(t, te.Timeout)
}

func TestFetchPage_InvalidArgumentsSkipNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[]`)
	}, Config{})

	_, err := c.FetchPage(context.Background(), "", 1, 6)
	require.ErrorIs(t, err, catalog.ErrInvalidRequest)
	_, err = c.FetchPage(context.Background(), "Tibrahi", 1, 500)
	require.ErrorIs(t, err, catalog.ErrInvalidRequest)
	require.Zero(t, hits.Load())
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{BaseURL: "http://[::1"})
	require.Error(t, err)
}

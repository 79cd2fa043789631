package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Record is one public repository as the site renders it.
type Record struct {
	ID          int64
	Name        string
	Description string
	Language    string
	Topics      []string
	Stars       int
	Forks       int
	Watchers    int
	Homepage    string
	SourceURL   string
	Archived    bool
	Fork        bool
	Private     bool
	UpdatedAt   time.Time
}

// HasHomepage reports whether the repository advertises a live deployment.
func (r Record) HasHomepage() bool { return r.Homepage != "" }

// RawRecord is the upstream listing item before validation. Every field may be absent.
type RawRecord struct {
	ID          *int64     `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Language    *string    `json:"language"`
	Topics      []string   `json:"topics"`
	Stars       *int       `json:"stargazers_count"`
	Forks       *int       `json:"forks_count"`
	Watchers    *int       `json:"watchers_count"`
	Homepage    *string    `json:"homepage"`
	HTMLURL     *string    `json:"html_url"`
	Archived    *bool      `json:"archived"`
	Fork        *bool      `json:"fork"`
	Private     *bool      `json:"private"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Record coerces the raw item. Missing id, name or html_url rejects it;
// everything else falls back to a zero value.
func (r RawRecord) Record() (Record, error) {
	if r.ID == nil || *r.ID <= 0 {
		return Record{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	name := strings.TrimSpace(deref(r.Name))
	if name == "" {
		return Record{}, fmt.Errorf("%w: repository %d has no name", ErrMalformedRecord, *r.ID)
	}
	src := strings.TrimSpace(deref(r.HTMLURL))
	if !strings.HasPrefix(src, "https://") && !strings.HasPrefix(src, "http://") {
		return Record{}, fmt.Errorf("%w: repository %q has no source url", ErrMalformedRecord, name)
	}

	rec := Record{
		ID:          *r.ID,
		Name:        name,
		Description: strings.TrimSpace(deref(r.Description)),
		Language:    strings.TrimSpace(deref(r.Language)),
		Topics:      cleanTopics(r.Topics),
		Stars:       nonNegative(r.Stars),
		Forks:       nonNegative(r.Forks),
		Watchers:    nonNegative(r.Watchers),
		Homepage:    strings.TrimSpace(deref(r.Homepage)),
		SourceURL:   src,
		Archived:    r.Archived != nil && *r.Archived,
		Fork:        r.Fork != nil && *r.Fork,
		Private:     r.Private != nil && *r.Private,
	}
	if r.UpdatedAt != nil {
		rec.UpdatedAt = r.UpdatedAt.UTC()
	}
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNegative(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}

func cleanTopics(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// DedupeKey selects the identity used to drop repeated records.
type DedupeKey int

const (
	DedupeByID DedupeKey = iota
	// DedupeByHomepage keeps one card per deployed site.
	DedupeByHomepage
)

// Rules are the inclusion rules of one view. Private repositories are always dropped.
type Rules struct {
	ExcludeForks    bool
	ExcludeArchived bool
	RequireHomepage bool
	DedupeBy        DedupeKey
}

var (
	// OriginalWork hides forks.
	OriginalWork = Rules{ExcludeForks: true}
	// ActiveWork hides forks and archived repositories.
	ActiveWork = Rules{ExcludeForks: true, ExcludeArchived: true}
	// LiveDeployments keeps one original repository per homepage.
	LiveDeployments = Rules{ExcludeForks: true, RequireHomepage: true, DedupeBy: DedupeByHomepage}
)

// Allows reports whether rec passes the inclusion rules.
func (r Rules) Allows(rec Record) bool {
	switch {
	case rec.Private:
		return false
	case r.ExcludeForks && rec.Fork:
		return false
	case r.ExcludeArchived && rec.Archived:
		return false
	case r.RequireHomepage && !rec.HasHomepage():
		return false
	}
	return true
}

func (r Rules) key(rec Record) string {
	if r.DedupeBy == DedupeByHomepage {
		if h := homepageKey(rec.Homepage); h != "" {
			return "home:" + h
		}
	}
	return "id:" + strconv.FormatInt(rec.ID, 10)
}

func homepageKey(h string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(h)), "/")
}

// Normalize converts and filters one raw page. It is pure: equal inputs give equal
// outputs, arrival order is kept and the first occurrence of a key wins.
// Malformed records are skipped.
func Normalize(raws []RawRecord, rules Rules) []Record {
	return Merge(nil, raws, rules)
}

// Merge appends the admissible records of raws that are not already in existing.
// existing is not modified.
func Merge(existing []Record, raws []RawRecord, rules Rules) []Record {
	out := make([]Record, len(existing), len(existing)+len(raws))
	copy(out, existing)

	seen := make(map[string]struct{}, len(out)+len(raws))
	for _, rec := range out {
		seen[rules.key(rec)] = struct{}{}
	}
	for _, raw := range raws {
		rec, err := raw.Record()
		if err != nil || !rules.Allows(rec) {
			continue
		}
		k := rules.key(rec)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// SortByStars orders records by star count, highest first, keeping arrival order on ties.
func SortByStars(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Stars > recs[j].Stars })
}

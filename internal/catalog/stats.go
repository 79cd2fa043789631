package catalog

import "sort"

// LanguageCount is one row of the language breakdown.
type LanguageCount struct {
	Language string
	Count    int
}

// Stats are the dashboard totals over an accumulated list.
type Stats struct {
	Repositories int
	Stars        int
	Forks        int
	Languages    []LanguageCount
}

// Summarize computes totals. Languages are ranked by count, then name.
func Summarize(recs []Record) Stats {
	st := Stats{Repositories: len(recs)}
	byLang := make(map[string]int)
	for _, r := range recs {
		st.Stars += r.Stars
		st.Forks += r.Forks
		if r.Language != "" {
			byLang[r.Language]++
		}
	}
	for lang, n := range byLang {
		st.Languages = append(st.Languages, LanguageCount{Language: lang, Count: n})
	}
	sort.Slice(st.Languages, func(i, j int) bool {
		if st.Languages[i].Count != st.Languages[j].Count {
			return st.Languages[i].Count > st.Languages[j].Count
		}
		return st.Languages[i].Language < st.Languages[j].Language
	})
	return st
}

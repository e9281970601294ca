package curriculum

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchResult is one fuzzy match of a subject.
type SearchResult struct {
	Track   Track
	Subject Subject
	// Label is the matched text, "{track} › {subject}".
	Label string
	// MatchedIndexes locate the matched characters in Label.
	MatchedIndexes []int
	Score          int
}

type searchEntry struct {
	track   int
	subject int
	label   string
}

type searchSource []searchEntry

func (s searchSource) String(i int) string { return strings.ToLower(s[i].label) }
func (s searchSource) Len() int            { return len(s) }

// Search fuzzy-matches subjects by track and subject name. Results are
// ordered best first and capped at limit when limit > 0.
func (c *Catalog) Search(query string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var src searchSource
	for ti, t := range c.tracks {
		for si, s := range t.Subjects {
			src = append(src, searchEntry{track: ti, subject: si, label: t.Name + " › " + s.Name})
		}
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), src)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		e := src[m.Index]
		t := c.tracks[e.track]
		results = append(results, SearchResult{
			Track:          t,
			Subject:        t.Subjects[e.subject],
			Label:          e.label,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return results
}

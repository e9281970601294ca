package lessons

import (
	"regexp"
	"sort"
	"strings"
)

var (
	cleanLabelsRe = regexp.MustCompile(`(?i)rationale:|answer:|question:|hint:`)
	rationaleRe   = regexp.MustCompile(`(?i)rationale:?`)
)

// Segment is a run of display text. Highlight is set on the first
// occurrence of a key term.
type Segment struct {
	Text      string
	Term      string
	Highlight bool
}

// Highlighter marks the first occurrence of each key term across every
// piece of text it renders until Reset.
type Highlighter struct {
	re   *regexp.Regexp
	seen map[string]bool
}

// NewHighlighter builds a highlighter for terms. Longer terms win over
// shorter ones that share a prefix.
func NewHighlighter(terms []string) *Highlighter {
	h := &Highlighter{seen: make(map[string]bool)}

	sorted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			sorted = append(sorted, t)
		}
	}
	if len(sorted) == 0 {
		return h
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	h.re = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	return h
}

// Reset forgets which terms have been marked.
func (h *Highlighter) Reset() {
	clear(h.seen)
}

// Clean strips bold markers and inline labels from display text.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	return strings.TrimSpace(cleanLabelsRe.ReplaceAllString(text, ""))
}

// Segments cleans text and splits it around key term matches.
func (h *Highlighter) Segments(text string) []Segment {
	text = Clean(text)
	if text == "" {
		return nil
	}
	if h.re == nil {
		return []Segment{{Text: text}}
	}

	var out []Segment
	last := 0
	for _, m := range h.re.FindAllStringIndex(text, -1) {
		if m[0] > last {
			out = append(out, Segment{Text: text[last:m[0]]})
		}
		match := text[m[0]:m[1]]
		term := strings.ToLower(match)
		seg := Segment{Text: match, Term: term}
		if !h.seen[term] {
			seg.Highlight = true
			h.seen[term] = true
		}
		out = append(out, seg)
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// SplitRationale separates a question answer from its rationale.
func SplitRationale(answer string) (string, string) {
	parts := rationaleRe.Split(answer, 2)
	base := strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return base, ""
	}
	return base, strings.TrimSpace(parts[1])
}

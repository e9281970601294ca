package lessons

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	overviewSectionTitle = "Unit Overview"
	defaultOverview      = "Curriculum Unit"
	defaultSolution      = "Logic summary pending"
	defaultReasoning     = "Theoretical basis"

	// minProblemLen drops example stubs the model left unfinished.
	minProblemLen = 50
	// minOverviewLen skips short lead-ins when picking the overview.
	minOverviewLen = 20
)

const (
	markerDictionary = "DICTIONARY:"
	markerKeyTerms   = "KEY_TERMS:"
	markerStudyTips  = "STUDY_TIPS:"
	markerVisual     = "VISUAL_PROMPT:"
	markerExample    = ":::"
	markerQuestion   = "???"
	tipSeparator     = "[SEP]"
)

// DefaultReferences is attached to every parsed lesson.
var DefaultReferences = []Reference{
	{Title: "DepEd Official Learning Materials", URI: "https://lrmds.deped.gov.ph/"},
}

var (
	headingRe  = regexp.MustCompile(`^##+\s`)
	tipIndexRe = regexp.MustCompile(`^\d+\.\s*`)
	mathStrip  = strings.NewReplacer("$", "", `\`, "")
)

// Parse turns generated lesson text into a Lesson. It never fails: missing
// pieces fall back to defaults and malformed blocks are dropped.
func Parse(text, fallbackTitle string) *Lesson {
	lines := strings.Split(mathStrip.Replace(text), "\n")

	visual := parseVisualPrompt(lines)
	sections := parseSections(lines, visual)

	return &Lesson{
		Title:      parseTitle(lines, fallbackTitle),
		Overview:   pickOverview(sections),
		Sections:   sections,
		References: append([]Reference(nil), DefaultReferences...),
		KeyTerms:   parseKeyTerms(lines),
		Dictionary: parseDictionary(lines),
		StudyTips:  parseStudyTips(lines),
	}
}

func parseTitle(lines []string, fallback string) string {
	for _, l := range lines {
		if strings.HasPrefix(l, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(l, "# "))
		}
	}
	return fallback
}

// findLine returns the first line containing marker.
func findLine(lines []string, marker string) (string, bool) {
	for _, l := range lines {
		if strings.Contains(l, marker) {
			return l, true
		}
	}
	return "", false
}

// afterColon returns the trimmed text following the first colon.
func afterColon(line string) string {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}

func parseKeyTerms(lines []string) []string {
	line, ok := findLine(lines, markerKeyTerms)
	if !ok {
		return nil
	}
	var terms []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(afterColon(line), ",") {
		t := strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(raw))
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		terms = append(terms, t)
	}
	return terms
}

func parseStudyTips(lines []string) []string {
	line, ok := findLine(lines, markerStudyTips)
	if !ok {
		return nil
	}
	_, rest, _ := strings.Cut(line, markerStudyTips)
	var tips []string
	for _, raw := range strings.Split(rest, tipSeparator) {
		t := tipIndexRe.ReplaceAllString(strings.TrimSpace(raw), "")
		if t != "" {
			tips = append(tips, t)
		}
	}
	return tips
}

func parseVisualPrompt(lines []string) string {
	line, ok := findLine(lines, markerVisual)
	if !ok {
		return ""
	}
	return afterColon(line)
}

func endsDictionary(line string) bool {
	return strings.HasPrefix(line, markerKeyTerms) ||
		strings.HasPrefix(line, markerStudyTips) ||
		strings.HasPrefix(line, "##")
}

func parseDictionary(lines []string) []VocabularyItem {
	var items []VocabularyItem
	seen := make(map[string]bool)
	in := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, markerDictionary) {
			in = true
			continue
		}
		if !in || line == "" {
			continue
		}
		if endsDictionary(line) {
			in = false
			continue
		}
		parts := splitPipes(line)
		if len(parts) < 3 || parts[0] == "" {
			continue
		}
		key := strings.ToLower(parts[0])
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, VocabularyItem{Term: parts[0], Pronunciation: parts[1], Definition: parts[2]})
	}
	return items
}

func splitPipes(s string) []string {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isMetadata(line string) bool {
	return strings.HasPrefix(line, markerDictionary) ||
		strings.HasPrefix(line, markerKeyTerms) ||
		strings.HasPrefix(line, markerStudyTips) ||
		strings.HasPrefix(line, markerVisual)
}

func parseSections(lines []string, visual string) []Section {
	var sections []Section
	current := Section{Title: overviewSectionTitle}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}

		if isMetadata(line) {
			if strings.HasPrefix(line, markerDictionary) {
				i = skipDictionary(lines, i)
			}
			continue
		}

		if headingRe.MatchString(line) {
			if len(current.Blocks) > 0 {
				sections = append(sections, current)
			}
			current = Section{Title: strings.TrimSpace(headingRe.ReplaceAllString(line, ""))}
			if len(sections) == 1 && visual != "" {
				current.VisualAidDescription = visual
			}
			continue
		}

		if strings.HasPrefix(line, markerExample) {
			ex, next := parseExample(lines, i)
			if ex != nil {
				current.Blocks = append(current.Blocks, Block{Kind: KindExample, Example: ex})
			}
			i = next - 1
			continue
		}

		if strings.HasPrefix(line, markerQuestion) {
			parts := splitPipes(strings.Replace(line, markerQuestion, "", 1))
			if len(parts) >= 3 {
				current.Blocks = append(current.Blocks, Block{
					Kind:     KindQuestion,
					Question: &Question{Question: parts[0], Hint: parts[1], Answer: parts[2]},
				})
			}
			continue
		}

		current.Blocks = append(current.Blocks, Block{Kind: KindParagraph, Text: line})
	}
	if len(current.Blocks) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// skipDictionary returns the index of the last dictionary line, which is the
// line before the next KEY_TERMS or STUDY_TIPS line or the final line.
func skipDictionary(lines []string, i int) int {
	for i+1 < len(lines) {
		next := strings.TrimSpace(lines[i+1])
		if strings.HasPrefix(next, markerKeyTerms) || strings.HasPrefix(next, markerStudyTips) {
			break
		}
		i++
	}
	return i
}

func endsExample(line string) bool {
	return strings.HasPrefix(line, "##") ||
		strings.HasPrefix(line, markerExample) ||
		strings.HasPrefix(line, markerQuestion) ||
		strings.Contains(line, markerDictionary)
}

// parseExample consumes the example opened at lines[start] and returns it with
// the index of the first line it did not consume. The example is nil when its
// problem statement is too short.
func parseExample(lines []string, start int) (*Example, int) {
	header := strings.TrimSpace(lines[start])
	difficulty := Difficulty(strings.TrimSpace(strings.Replace(header, markerExample, "", 1)))
	if difficulty == "" {
		difficulty = Moderate
	}

	var problem, solution, reasoning string
	target := &problem

	j := start + 1
	for ; j < len(lines); j++ {
		l := strings.TrimSpace(lines[j])
		if endsExample(l) {
			break
		}
		clean := strings.TrimSuffix(strings.TrimPrefix(l, "**"), "**")
		if label, rest, ok := exampleLabel(clean); ok {
			switch label {
			case "problem":
				target = &problem
			case "solution":
				target = &solution
			case "reasoning":
				target = &reasoning
			}
			*target = rest
			continue
		}
		if l == "" {
			continue
		}
		if *target != "" {
			*target += " "
		}
		*target += l
	}

	if utf8.RuneCountInString(problem) <= minProblemLen {
		return nil, j
	}
	if solution == "" {
		solution = defaultSolution
	}
	if reasoning == "" {
		reasoning = defaultReasoning
	}
	return &Example{Difficulty: difficulty, Problem: problem, Solution: solution, Reasoning: reasoning}, j
}

var exampleLabels = []string{"problem", "solution", "reasoning"}

// exampleLabel matches a case-insensitive "label:" prefix and returns the
// remaining text with any bold markers around it removed.
func exampleLabel(line string) (string, string, bool) {
	lower := strings.ToLower(line)
	for _, label := range exampleLabels {
		if strings.HasPrefix(lower, label+":") {
			rest := strings.TrimSpace(line[len(label)+1:])
			rest = strings.TrimSpace(strings.TrimPrefix(rest, "**"))
			return label, rest, true
		}
	}
	return "", "", false
}

func pickOverview(sections []Section) string {
	if len(sections) == 0 {
		return defaultOverview
	}
	for _, p := range sections[0].Paragraphs() {
		if utf8.RuneCountInString(p) > minOverviewLen {
			return p
		}
	}
	return defaultOverview
}

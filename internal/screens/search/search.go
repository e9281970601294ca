package search

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

const maxResults = 50

// SearchScreen fuzzy-finds subjects across every track.
type SearchScreen struct {
	catalog  *curriculum.Catalog
	input    components.TextInput
	results  []curriculum.SearchResult
	selected int
}

var _ screen.Screen = (*SearchScreen)(nil)
var _ screen.KeyHintProvider = (*SearchScreen)(nil)
var _ screen.InputCapturer = (*SearchScreen)(nil)

// New creates the search screen.
func New(deps *nav.Deps) *SearchScreen {
	return &SearchScreen{
		catalog: deps.Catalog,
		input:   components.NewTextInput("Search subjects, e.g. grade 7 science", 64, 50),
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SearchScreen) Title() string {
	return "Search"
}

// CapturesInput keeps q and other letters in the query field. Esc is
// still handled here and pops the screen.
func (s *SearchScreen) CapturesInput() bool {
	return true
}

func (s *SearchScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// Results returns the current matches.
func (s *SearchScreen) Results() []curriculum.SearchResult {
	return s.results
}

func (s *SearchScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "ctrl+p":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "ctrl+n":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.results) {
				r := s.results[s.selected]
				return s, nav.Cmd(nav.OpenUnitsMsg{TrackID: r.Track.ID, SubjectID: r.Subject.ID})
			}
			return s, nil
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if q := s.input.Value(); q != before {
		s.results = s.catalog.Search(q, maxResults)
		s.selected = 0
	}
	return s, cmd
}

func (s *SearchScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Find a subject") + "\n\n")
	b.WriteString(theme.Card.Render(s.input.View()) + "\n\n")

	switch {
	case s.input.Value() == "":
		b.WriteString(theme.Hint.Render("Type a track or subject name."))
	case len(s.results) == 0:
		b.WriteString(theme.Hint.Render("No matching subjects."))
	default:
		rows := max(height-9, 1)
		start := 0
		if s.selected >= rows {
			start = s.selected - rows + 1
		}
		for i := start; i < len(s.results) && i < start+rows; i++ {
			b.WriteString(s.renderResult(i) + "\n")
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderResult bolds the characters the fuzzy matcher hit.
func (s *SearchScreen) renderResult(i int) string {
	r := s.results[i]
	matched := make(map[int]bool, len(r.MatchedIndexes))
	for _, idx := range r.MatchedIndexes {
		matched[idx] = true
	}

	base := theme.Unselected
	prefix := "    "
	if i == s.selected {
		base = theme.Selected
		prefix = "  ▸ "
	}
	hit := base.Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	b.WriteString(base.Render(prefix))
	if r.Subject.Icon != "" {
		b.WriteString(r.Subject.Icon + " ")
	}
	for idx, ch := range r.Label {
		if matched[idx] {
			b.WriteString(hit.Render(string(ch)))
		} else {
			b.WriteString(base.Render(string(ch)))
		}
	}
	return b.String()
}

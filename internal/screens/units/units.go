package units

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

const melcWidth = 60

type savedLoadedMsg struct {
	Saved map[string]bool
	Err   error
}

// UnitsScreen lists every quarter and week of a subject.
type UnitsScreen struct {
	deps    *nav.Deps
	track   curriculum.Track
	subject curriculum.Subject
	units   []curriculum.Unit
	// rows maps menu rows to units; quarter headings map to -1.
	rows  []int
	menu  components.Menu
	saved map[string]bool
	err   error
}

var _ screen.Screen = (*UnitsScreen)(nil)
var _ screen.KeyHintProvider = (*UnitsScreen)(nil)
var _ screen.Resumer = (*UnitsScreen)(nil)

// New creates the week picker for a subject.
func New(deps *nav.Deps, trackID, subjectID string) (*UnitsScreen, error) {
	track, subject, err := deps.Catalog.Subject(trackID, subjectID)
	if err != nil {
		return nil, err
	}
	units, err := deps.Catalog.Units(trackID, subjectID)
	if err != nil {
		return nil, err
	}
	s := &UnitsScreen{
		deps:    deps,
		track:   track,
		subject: subject,
		units:   units,
		saved:   make(map[string]bool),
	}
	s.rebuild()
	return s, nil
}

func (s *UnitsScreen) rebuild() {
	selected := s.menu.Selected
	var items []components.MenuItem
	s.rows = s.rows[:0]
	quarter := 0
	for i, u := range s.units {
		if u.Quarter != quarter {
			quarter = u.Quarter
			items = append(items, components.MenuItem{Label: fmt.Sprintf("Quarter %d", quarter), Disabled: true})
			s.rows = append(s.rows, -1)
		}
		marker := ""
		if s.saved[u.Key()] {
			marker = "✓"
		}
		detail := truncate(u.Week.MELC, melcWidth)
		if u.Week.Code != "" {
			detail += " (" + u.Week.Code + ")"
		}
		items = append(items, components.MenuItem{
			Label:  u.Week.Name,
			Detail: detail,
			Marker: marker,
			Action: func() tea.Cmd {
				return nav.Cmd(nav.OpenLessonMsg{Unit: u})
			},
		})
		s.rows = append(s.rows, i)
	}
	s.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *UnitsScreen) loadSaved() tea.Cmd {
	lib := s.deps.Library
	return func() tea.Msg {
		ctx, cancel := s.deps.Context()
		defer cancel()
		saved, err := lib.SavedKeys(ctx)
		return savedLoadedMsg{Saved: saved, Err: err}
	}
}

func (s *UnitsScreen) Init() tea.Cmd {
	return s.loadSaved()
}

// Resume reloads the saved marks after returning from a lesson.
func (s *UnitsScreen) Resume() tea.Cmd {
	return s.loadSaved()
}

func (s *UnitsScreen) Title() string {
	return s.subject.Name
}

func (s *UnitsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open lesson"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UnitsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedLoadedMsg:
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.err = nil
		s.saved = msg.Saved
		s.rebuild()
		return s, nil
	case nav.SavedChangedMsg:
		return s, s.loadSaved()
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *UnitsScreen) View(width, height int) string {
	var b strings.Builder
	icon := s.subject.Icon
	if icon != "" {
		icon += " "
	}
	b.WriteString(theme.Title.Render(icon+s.subject.Name) + "\n")
	b.WriteString(theme.Subtitle.Render(s.track.Name) + "\n\n")

	savedCount := 0
	for _, u := range s.units {
		if s.saved[u.Key()] {
			savedCount++
		}
	}
	var pct float64
	if len(s.units) > 0 {
		pct = float64(savedCount) / float64(len(s.units))
	}
	label := fmt.Sprintf("%d/%d saved", savedCount, len(s.units))
	b.WriteString(components.NewProgressBar(label, pct, false, min(width-4, 60)).View() + "\n\n")

	if s.err != nil {
		b.WriteString(theme.Failure.Render("Could not read saved lessons: "+s.err.Error()) + "\n\n")
	}

	b.WriteString(s.menu.View(height - 9))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Selected returns the highlighted unit.
func (s *UnitsScreen) Selected() (curriculum.Unit, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.rows) || s.rows[s.menu.Selected] < 0 {
		return curriculum.Unit{}, false
	}
	return s.units[s.rows[s.menu.Selected]], true
}

// Subject returns the subject being browsed.
func (s *UnitsScreen) Subject() curriculum.Subject {
	return s.subject
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package subjects

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

// SubjectsScreen lists the subjects of one track, grouped by category
// when the track has them.
type SubjectsScreen struct {
	track curriculum.Track
	menu  components.Menu
	// index maps menu rows to subjects; headings map to -1.
	index []int
}

var _ screen.Screen = (*SubjectsScreen)(nil)
var _ screen.KeyHintProvider = (*SubjectsScreen)(nil)

// New creates a subject picker for track.
func New(deps *nav.Deps, track curriculum.Track) *SubjectsScreen {
	s := &SubjectsScreen{track: track}
	var items []components.MenuItem
	var last curriculum.Category
	for i, sub := range track.Subjects {
		if sub.Category != curriculum.CategoryNone && sub.Category != last {
			items = append(items, components.MenuItem{Label: string(sub.Category), Disabled: true})
			s.index = append(s.index, -1)
			last = sub.Category
		}
		label := sub.Name
		if sub.Icon != "" {
			label = sub.Icon + " " + sub.Name
		}
		detail := ""
		if sub.Semester > 0 {
			detail = fmt.Sprintf("Semester %d", sub.Semester)
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Detail: detail,
			Action: func() tea.Cmd {
				return nav.Cmd(nav.OpenUnitsMsg{TrackID: track.ID, SubjectID: sub.ID})
			},
		})
		s.index = append(s.index, i)
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *SubjectsScreen) Init() tea.Cmd {
	return nil
}

func (s *SubjectsScreen) Title() string {
	return s.track.Name
}

func (s *SubjectsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Lessons"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SubjectsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SubjectsScreen) View(width, height int) string {
	if len(s.track.Subjects) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  This track has no subjects yet.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.track.Name) + "\n")
	b.WriteString(theme.Subtitle.Render(string(s.track.Level)) + "\n\n")

	sub, ok := s.Selected()
	var desc string
	if ok && sub.Description != "" {
		desc = theme.Card.Width(min(width-4, 72)).Render(theme.Hint.Render(sub.Description))
	}
	b.WriteString(s.menu.View(height - 6 - lipgloss.Height(desc)))
	if desc != "" {
		b.WriteString("\n" + desc)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Selected returns the highlighted subject.
func (s *SubjectsScreen) Selected() (curriculum.Subject, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.index) || s.index[s.menu.Selected] < 0 {
		return curriculum.Subject{}, false
	}
	return s.track.Subjects[s.index[s.menu.Selected]], true
}

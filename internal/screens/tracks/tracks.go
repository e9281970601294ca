package tracks

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/screens/subjects"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

// TracksScreen lists the tracks of a level or specialized program.
type TracksScreen struct {
	deps   *nav.Deps
	title  string
	tracks []curriculum.Track
	menu   components.Menu
}

var _ screen.Screen = (*TracksScreen)(nil)
var _ screen.KeyHintProvider = (*TracksScreen)(nil)

// New creates a track picker.
func New(deps *nav.Deps, title string, tracks []curriculum.Track) *TracksScreen {
	s := &TracksScreen{deps: deps, title: title, tracks: tracks}
	items := make([]components.MenuItem, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, components.MenuItem{
			Label:  t.Name,
			Detail: fmt.Sprintf("%d subjects", len(t.Subjects)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: subjects.New(deps, t)}
				}
			},
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

// ForLevel creates the picker for every track of a level.
func ForLevel(deps *nav.Deps, level curriculum.Level) *TracksScreen {
	return New(deps, string(level), deps.Catalog.TracksByLevel(level))
}

func (s *TracksScreen) Init() tea.Cmd {
	return nil
}

func (s *TracksScreen) Title() string {
	return s.title
}

func (s *TracksScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Subjects"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TracksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TracksScreen) View(width, height int) string {
	if len(s.tracks) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No tracks available.")
	}
	heading := theme.Title.Render(s.title) + "\n" +
		theme.Subtitle.Render("Choose a track") + "\n\n"
	return lipgloss.NewStyle().Padding(1, 2).Render(heading + s.menu.View(height-6))
}

// Selected returns the highlighted track.
func (s *TracksScreen) Selected() curriculum.Track {
	return s.tracks[s.menu.Selected]
}

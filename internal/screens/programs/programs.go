package programs

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/screens/tracks"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

// ProgramsScreen lists the specialized curricular programs.
type ProgramsScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*ProgramsScreen)(nil)
var _ screen.KeyHintProvider = (*ProgramsScreen)(nil)

// New creates the program picker.
func New(deps *nav.Deps) *ProgramsScreen {
	var items []components.MenuItem
	for _, p := range deps.Catalog.SpecializedPrograms() {
		items = append(items, components.MenuItem{
			Label:  p.Name,
			Detail: fmt.Sprintf("%d tracks", len(p.Tracks)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: tracks.New(deps, p.Name, p.Tracks)}
				}
			},
		})
	}
	return &ProgramsScreen{menu: components.NewMenu(items)}
}

func (s *ProgramsScreen) Init() tea.Cmd {
	return nil
}

func (s *ProgramsScreen) Title() string {
	return "Specialized Programs"
}

func (s *ProgramsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Tracks"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgramsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ProgramsScreen) View(width, height int) string {
	heading := theme.Title.Render("Specialized Curricular Programs") + "\n" +
		theme.Subtitle.Render("Choose a program") + "\n\n"
	return lipgloss.NewStyle().Padding(1, 2).Render(heading + s.menu.View(height-6))
}

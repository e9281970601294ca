package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/screens/programs"
	"github.com/abhisek/masterreview/internal/screens/saved"
	"github.com/abhisek/masterreview/internal/screens/search"
	"github.com/abhisek/masterreview/internal/screens/tracks"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

const tagline = "DepEd K-12 review modules, generated on demand and kept for offline study."

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu   components.Menu
	online bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates a new HomeScreen.
func New(deps *nav.Deps) *HomeScreen {
	count := func(level curriculum.Level) string {
		return fmt.Sprintf("%d tracks", len(deps.Catalog.TracksByLevel(level)))
	}
	items := []components.MenuItem{
		{Label: "Junior High School", Detail: count(curriculum.LevelJHS), Action: func() tea.Cmd {
			return push(tracks.ForLevel(deps, curriculum.LevelJHS))
		}},
		{Label: "Specialized Programs", Detail: count(curriculum.LevelSpecialized), Action: func() tea.Cmd {
			return push(programs.New(deps))
		}},
		{Label: "Senior High School", Detail: count(curriculum.LevelSHS), Action: func() tea.Cmd {
			return push(tracks.ForLevel(deps, curriculum.LevelSHS))
		}},
		{Label: "Search", Action: func() tea.Cmd {
			return push(search.New(deps))
		}},
		{Label: "Saved Lessons", Action: func() tea.Cmd {
			return push(saved.New(deps))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{
		menu:   components.NewMenu(items),
		online: deps.Library != nil && deps.Library.Online(),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "/":
			return h, h.menu.Items[3].Action()
		case "q":
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("MasterReview") + "\n")
	b.WriteString(theme.Subtitle.Render(tagline) + "\n\n")

	mode := theme.Saved.Render("● Online")
	if !h.online {
		mode = theme.Failure.Render("● Offline") + theme.Hint.Render("  saved lessons only")
	}
	b.WriteString(mode + "\n\n")
	b.WriteString(h.menu.View(0))

	card := theme.Card.Padding(1, 3).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "/", Description: "Search"},
		{Key: "q", Description: "Quit"},
	}
}

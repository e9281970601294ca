package saved

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/library"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

type savedLoadedMsg struct {
	Lessons []library.StoredLesson
	Err     error
}

type deletedMsg struct {
	Key string
	Err error
}

// SavedScreen lists lessons kept for offline review.
type SavedScreen struct {
	deps     *nav.Deps
	lessons  []library.StoredLesson
	selected int
	loaded   bool
	errMsg   string
	status   string
}

var _ screen.Screen = (*SavedScreen)(nil)
var _ screen.KeyHintProvider = (*SavedScreen)(nil)
var _ screen.Resumer = (*SavedScreen)(nil)

// New creates a new SavedScreen.
func New(deps *nav.Deps) *SavedScreen {
	return &SavedScreen{deps: deps}
}

func (s *SavedScreen) load() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		list, err := deps.Library.List(ctx)
		return savedLoadedMsg{Lessons: list, Err: err}
	}
}

func (s *SavedScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads the list after a lesson viewer is closed.
func (s *SavedScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *SavedScreen) Title() string {
	return "Saved Lessons"
}

func (s *SavedScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "x", Description: "Delete"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// Lessons returns the loaded list.
func (s *SavedScreen) Lessons() []library.StoredLesson {
	return s.lessons
}

func (s *SavedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.lessons = msg.Lessons
		}
		if s.selected >= len(s.lessons) {
			s.selected = max(len(s.lessons)-1, 0)
		}
		s.loaded = true
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.status = "Delete failed: " + msg.Err.Error()
			return s, nil
		}
		s.status = "Deleted."
		return s, tea.Batch(s.load(), nav.Cmd(nav.SavedChangedMsg{}))

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.lessons)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			return s, s.open()
		case "x", "delete":
			return s, s.delete()
		}
	}
	return s, nil
}

func (s *SavedScreen) open() tea.Cmd {
	if s.selected >= len(s.lessons) {
		return nil
	}
	stored := s.lessons[s.selected]
	unit, err := s.deps.Library.Resolve(stored)
	if err != nil {
		s.deps.Logger().Warn("saved lesson no longer in catalog", zap.String("key", stored.Key), zap.Error(err))
		s.status = "This lesson's subject is no longer in the catalog."
		return nil
	}
	s.status = ""
	return nav.Cmd(nav.OpenLessonMsg{Unit: unit, Saved: stored.Lesson})
}

func (s *SavedScreen) delete() tea.Cmd {
	if s.selected >= len(s.lessons) {
		return nil
	}
	deps, key := s.deps, s.lessons[s.selected].Key
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		return deletedMsg{Key: key, Err: deps.Library.Delete(ctx, key)}
	}
}

func (s *SavedScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading saved lessons...")
	}
	if len(s.lessons) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No saved lessons yet. Press s in a lesson to keep it offline.")
	}

	var b strings.Builder
	b.WriteString("\n")

	rows := max(height-4, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	for i := start; i < len(s.lessons) && i < start+rows; i++ {
		l := s.lessons[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		icon := l.SubjectIcon
		if icon == "" {
			icon = "•"
		}
		line := fmt.Sprintf("%s%s %s  %s  Q%d %s  %s",
			prefix, icon, l.SubjectName, l.TrackName, l.Quarter, l.Week, l.SavedAt.Format("Jan 02, 2006"))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.status != "" {
		b.WriteString("\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(s.status)))
	}
	return b.String()
}

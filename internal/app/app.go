package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/home"
	"github.com/abhisek/masterreview/internal/screens/lesson"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/screens/notice"
	"github.com/abhisek/masterreview/internal/screens/units"
	"github.com/abhisek/masterreview/internal/ui/layout"
)

type savedCountMsg struct {
	Count int
	Err   error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps       *nav.Deps
	router     *router.Router
	savedCount int
	width      int
	height     int
}

// newAppModel creates a new AppModel with the home screen. When no
// provider is configured the offline notice is shown on top of it.
func newAppModel(deps *nav.Deps) AppModel {
	m := AppModel{
		deps:   deps,
		router: router.New(home.New(deps)),
	}
	if !deps.Library.Online() {
		m.router.Push(notice.New("Offline", notice.OfflineMessage))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.countSaved()
}

func (m AppModel) countSaved() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		n, err := deps.Library.Count(ctx)
		return savedCountMsg{Count: n, Err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedCountMsg:
		if msg.Err != nil {
			m.deps.Logger().Warn("counting saved lessons failed", zap.Error(msg.Err))
			return m, nil
		}
		m.savedCount = msg.Count
		return m, nil

	case nav.SavedChangedMsg:
		return m, tea.Batch(m.countSaved(), m.router.Update(msg))

	case nav.OpenUnitsMsg:
		s, err := units.New(m.deps, msg.TrackID, msg.SubjectID)
		if err != nil {
			m.deps.Logger().Warn("open units failed", zap.String("track", msg.TrackID), zap.String("subject", msg.SubjectID), zap.Error(err))
			return m, nil
		}
		return m, m.router.Push(s)

	case nav.OpenLessonMsg:
		return m, m.router.Push(lesson.New(m.deps, msg.Unit, msg.Saved))

	case nav.SiblingMsg:
		return m, m.openSibling(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if capturing(m.router.Active()) {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// openSibling closes the lesson and shows the sibling subject's units,
// replacing the units screen the lesson was opened from.
func (m AppModel) openSibling(msg nav.SiblingMsg) tea.Cmd {
	s, err := units.New(m.deps, msg.TrackID, msg.SubjectID)
	if err != nil {
		m.deps.Logger().Warn("open sibling failed", zap.String("subject", msg.SubjectID), zap.Error(err))
		return nil
	}
	if _, ok := m.router.Active().(*lesson.LessonScreen); ok {
		m.router.Pop()
	}
	if _, ok := m.router.Active().(*units.UnitsScreen); ok {
		return m.router.Replace(s)
	}
	return m.router.Push(s)
}

func capturing(s screen.Screen) bool {
	c, ok := s.(screen.InputCapturer)
	return ok && c.CapturesInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.savedCount, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, hp.KeyHints()...)
		footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(deps *nav.Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

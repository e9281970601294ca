package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/ui/layout"
	"github.com/abhisek/masterreview/internal/ui/theme"
)

// OfflineMessage explains how to configure a provider.
const OfflineMessage = "No AI provider is configured.\n\n" +
	"Saved lessons still open, but new lessons, definitions,\n" +
	"and visuals need an API key.\n\n" +
	"Set GEMINI_API_KEY (or OPENAI_API_KEY / ANTHROPIC_API_KEY)\n" +
	"or run `masterreview config init` and edit the file."

// NoticeScreen shows a centered message until dismissed.
type NoticeScreen struct {
	title string
	body  string
}

var _ screen.Screen = (*NoticeScreen)(nil)
var _ screen.KeyHintProvider = (*NoticeScreen)(nil)

// New creates a notice with the given title and body.
func New(title, body string) *NoticeScreen {
	return &NoticeScreen{title: title, body: body}
}

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "space", "q":
			return n, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return n, nil
}

func (n *NoticeScreen) View(width, height int) string {
	card := theme.Card.Render(
		theme.Title.Render("╌╌ "+n.title+" ╌╌") + "\n\n" + theme.Body.Render(n.body),
	)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

func (n *NoticeScreen) Title() string {
	return n.title
}

func (n *NoticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

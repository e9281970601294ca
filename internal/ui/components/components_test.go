package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenuSkipsHeadings(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Junior High School", Disabled: true},
		{Label: "Grade 7"},
		{Label: "Senior High School", Disabled: true},
		{Label: "Grade 11"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key('j'))
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(key('j'))
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(key('k'))
	assert.Equal(t, 1, m.Selected)
}

func TestMenuEnterRunsAction(t *testing.T) {
	type picked struct{}
	m := NewMenu([]MenuItem{
		{Label: "Open", Action: func() tea.Cmd {
			return func() tea.Msg { return picked{} }
		}},
	})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if assert.NotNil(t, cmd) {
		assert.IsType(t, picked{}, cmd())
	}
}

func TestMenuViewWindow(t *testing.T) {
	items := make([]MenuItem, 20)
	for i := range items {
		items[i] = MenuItem{Label: string(rune('a' + i))}
	}
	m := NewMenu(items)
	m.Selected = 15

	lines := strings.Split(strings.TrimRight(m.View(6), "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, m.View(6), "▸ p")
	assert.NotContains(t, m.View(6), " a\n")
}

func TestMenuViewMarkerAndDetail(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Week 1-2", Marker: "✓", Detail: "M7NS-Ia-1"}})
	out := m.View(0)
	assert.Contains(t, out, "Week 1-2")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "M7NS-Ia-1")
}

func TestProgressDots(t *testing.T) {
	out := ProgressDots(1, 3)
	assert.Equal(t, 1, strings.Count(out, "●"))
	assert.Equal(t, 2, strings.Count(out, "○"))
	assert.Empty(t, ProgressDots(0, 0))
}

package app

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/library"
	"github.com/abhisek/masterreview/internal/router"
	"github.com/abhisek/masterreview/internal/screens/home"
	"github.com/abhisek/masterreview/internal/screens/lesson"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/screens/notice"
	"github.com/abhisek/masterreview/internal/screens/units"
	"github.com/abhisek/masterreview/internal/store"
	"github.com/abhisek/masterreview/internal/ui/layout"
)

func newDeps(t *testing.T) *nav.Deps {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &nav.Deps{
		Catalog: curriculum.Default(),
		Library: library.New(curriculum.Default(), st.LessonRepo(), nil, nil),
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func TestOfflineShowsNotice(t *testing.T) {
	m := newAppModel(newDeps(t))
	assert.Equal(t, 2, m.router.Depth())
	assert.IsType(t, &notice.NoticeScreen{}, m.router.Active())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
}

func TestOpenUnitsAndLesson(t *testing.T) {
	m := newAppModel(newDeps(t))
	m.router.Pop()

	m = update(t, m, nav.OpenUnitsMsg{TrackID: "jhs-7", SubjectID: "jhs7-mathematics"})
	require.IsType(t, &units.UnitsScreen{}, m.router.Active())

	u, err := curriculum.Default().Unit("jhs-7", "jhs7-mathematics", 1, "Week 1-2")
	require.NoError(t, err)
	m = update(t, m, nav.OpenLessonMsg{Unit: u, Saved: &lessons.Lesson{Title: "Integers"}})
	assert.IsType(t, &lesson.LessonScreen{}, m.router.Active())
	assert.Equal(t, 3, m.router.Depth())
}

func TestSiblingReplacesUnits(t *testing.T) {
	m := newAppModel(newDeps(t))
	m.router.Pop()
	m = update(t, m, nav.OpenUnitsMsg{TrackID: "jhs-7", SubjectID: "jhs7-mathematics"})
	u, err := curriculum.Default().Unit("jhs-7", "jhs7-mathematics", 1, "Week 1-2")
	require.NoError(t, err)
	m = update(t, m, nav.OpenLessonMsg{Unit: u, Saved: &lessons.Lesson{Title: "Integers"}})

	m = update(t, m, nav.SiblingMsg{TrackID: "jhs-7", SubjectID: "jhs7-science"})
	assert.Equal(t, 2, m.router.Depth())
	active, ok := m.router.Active().(*units.UnitsScreen)
	require.True(t, ok)
	assert.Equal(t, "jhs7-science", active.Subject().ID)
}

func TestSiblingFromSavedPushesUnits(t *testing.T) {
	m := newAppModel(newDeps(t))
	m.router.Pop()
	u, err := curriculum.Default().Unit("jhs-7", "jhs7-mathematics", 1, "Week 1-2")
	require.NoError(t, err)
	m = update(t, m, nav.OpenLessonMsg{Unit: u, Saved: &lessons.Lesson{Title: "Integers"}})

	m = update(t, m, nav.SiblingMsg{TrackID: "jhs-7", SubjectID: "jhs7-filipino"})
	assert.Equal(t, 2, m.router.Depth())
	assert.IsType(t, &units.UnitsScreen{}, m.router.Active())
}

func TestEscGoesToCapturingScreen(t *testing.T) {
	m := newAppModel(newDeps(t))
	m.router.Pop()
	u, err := curriculum.Default().Unit("jhs-7", "jhs7-mathematics", 1, "Week 1-2")
	require.NoError(t, err)
	l := &lessons.Lesson{
		KeyTerms: []string{"integer"},
		Sections: []lessons.Section{{
			Title:  "Unit Overview",
			Blocks: []lessons.Block{{Kind: lessons.KindParagraph, Text: "An integer is a whole number."}},
		}},
	}
	m = update(t, m, nav.OpenLessonMsg{Unit: u, Saved: l})
	m = update(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = update(t, m, tea.KeyPressMsg{Code: 'd', Text: "d"})

	screen := m.router.Active().(*lesson.LessonScreen)
	require.True(t, screen.CapturesInput())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		_, isPop := cmd().(router.PopScreenMsg)
		assert.False(t, isPop)
	}
	assert.False(t, screen.CapturesInput())
	assert.Equal(t, 2, m.router.Depth())
}

func TestSavedCountInHeader(t *testing.T) {
	m := newAppModel(newDeps(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, savedCountMsg{Count: 4})
	assert.Equal(t, 4, m.savedCount)
	assert.Contains(t, layout.RenderHeader("Home", m.savedCount, m.width), "✓ 4 saved")
	assert.True(t, m.View().AltScreen)
}

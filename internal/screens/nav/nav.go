// Package nav holds the dependencies shared by every screen and the
// messages screens use to ask the app for a screen they cannot import.
package nav

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/library"
)

// DefaultTimeout bounds a single model call made from the TUI.
const DefaultTimeout = 3 * time.Minute

// Deps are the services screens work against. Lessons is nil when no
// provider is configured.
type Deps struct {
	Catalog    *curriculum.Catalog
	Library    *library.Library
	Lessons    *lessons.Service
	VisualsDir string
	Timeout    time.Duration
	Log        *zap.Logger
}

// Context returns a context bounded by the configured timeout.
func (d *Deps) Context() (context.Context, context.CancelFunc) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// Logger never returns nil.
func (d *Deps) Logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// OpenUnitsMsg asks the app to push the units screen for a subject.
type OpenUnitsMsg struct {
	TrackID   string
	SubjectID string
}

// OpenLessonMsg asks the app to push the lesson viewer. Saved is set
// when the lesson comes from the library and needs no generation.
type OpenLessonMsg struct {
	Unit  curriculum.Unit
	Saved *lessons.Lesson
}

// SiblingMsg asks the app to leave the lesson viewer for the units of a
// neighbouring subject in the same track.
type SiblingMsg struct {
	TrackID   string
	SubjectID string
}

// SavedChangedMsg is broadcast after a lesson is saved or deleted.
type SavedChangedMsg struct{}

// Cmd wraps a message in a command.
func Cmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

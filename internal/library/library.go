// Package library keeps generated lessons for offline review and decides
// when a unit needs a fresh generation.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/store"
)

// ErrOffline is returned when a lesson must be generated but no provider
// is configured.
var ErrOffline = errors.New("no lesson provider configured; only saved lessons are available")

// Generator produces a lesson for a unit.
type Generator interface {
	Generate(ctx context.Context, req lessons.GenerateRequest) (*lessons.Lesson, error)
}

// StoredLesson is a saved lesson together with the catalog names it was
// saved under.
type StoredLesson struct {
	Key         string
	TrackID     string
	SubjectID   string
	Quarter     int
	Week        string
	SavedAt     time.Time
	Lesson      *lessons.Lesson
	TrackName   string
	SubjectName string
	SubjectIcon string
}

// Result is the outcome of opening a unit.
type Result struct {
	Lesson    *lessons.Lesson
	FromCache bool
}

// Library combines the catalog, the lesson store and a generator.
type Library struct {
	catalog *curriculum.Catalog
	repo    store.LessonRepo
	gen     Generator
	log     *zap.Logger
	now     func() time.Time
}

// New creates a Library. gen may be nil, in which case only saved lessons
// can be opened.
func New(catalog *curriculum.Catalog, repo store.LessonRepo, gen Generator, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		catalog: catalog,
		repo:    repo,
		gen:     gen,
		log:     log,
		now:     time.Now,
	}
}

// Online reports whether lessons can be generated.
func (l *Library) Online() bool {
	return l.gen != nil
}

// Catalog returns the catalog the library resolves against.
func (l *Library) Catalog() *curriculum.Catalog {
	return l.catalog
}

// Open returns the stored lesson for unit when there is one and no focus is
// requested. Otherwise it generates a new lesson, which is not saved.
func (l *Library) Open(ctx context.Context, unit curriculum.Unit, focus string) (Result, error) {
	if focus == "" {
		stored, err := l.Get(ctx, unit.Key())
		switch {
		case err == nil:
			l.log.Debug("lesson served from library", zap.String("key", unit.Key()))
			return Result{Lesson: stored.Lesson, FromCache: true}, nil
		case !errors.Is(err, store.ErrNotFound):
			return Result{}, err
		}
	}

	if l.gen == nil {
		return Result{}, ErrOffline
	}
	lesson, err := l.gen.Generate(ctx, lessons.GenerateRequest{Unit: unit, Focus: focus})
	if err != nil {
		return Result{}, err
	}
	return Result{Lesson: lesson}, nil
}

// Save stores lesson under the unit's key, replacing any previous copy.
func (l *Library) Save(ctx context.Context, unit curriculum.Unit, lesson *lessons.Lesson) (StoredLesson, error) {
	if lesson == nil {
		return StoredLesson{}, errors.New("save: nil lesson")
	}
	content, err := json.Marshal(lesson)
	if err != nil {
		return StoredLesson{}, fmt.Errorf("encode lesson: %w", err)
	}

	row := store.SavedLesson{
		Key:         unit.Key(),
		TrackID:     unit.Track.ID,
		SubjectID:   unit.Subject.ID,
		Quarter:     unit.Quarter,
		Week:        unit.Week.Name,
		TrackName:   unit.Track.Name,
		SubjectName: unit.Subject.Name,
		SubjectIcon: unit.Subject.Icon,
		SavedAt:     l.now(),
		Content:     content,
	}
	if err := l.repo.Upsert(ctx, row); err != nil {
		return StoredLesson{}, fmt.Errorf("save lesson %s: %w", row.Key, err)
	}
	l.log.Info("lesson saved", zap.String("key", row.Key))

	return StoredLesson{
		Key:         row.Key,
		TrackID:     row.TrackID,
		SubjectID:   row.SubjectID,
		Quarter:     row.Quarter,
		Week:        row.Week,
		SavedAt:     row.SavedAt,
		Lesson:      lesson,
		TrackName:   row.TrackName,
		SubjectName: row.SubjectName,
		SubjectIcon: row.SubjectIcon,
	}, nil
}

// Get loads the lesson stored under key. A missing key returns an error
// wrapping store.ErrNotFound.
func (l *Library) Get(ctx context.Context, key string) (*StoredLesson, error) {
	row, err := l.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load lesson %s: %w", key, err)
	}
	if row == nil {
		return nil, fmt.Errorf("lesson %s: %w", key, store.ErrNotFound)
	}
	return decode(*row)
}

// List returns every saved lesson, newest first. Rows that fail to decode
// are skipped and logged.
func (l *Library) List(ctx context.Context) ([]StoredLesson, error) {
	rows, err := l.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	out := make([]StoredLesson, 0, len(rows))
	for _, row := range rows {
		s, err := decode(row)
		if err != nil {
			l.log.Warn("skipping unreadable lesson", zap.String("key", row.Key), zap.Error(err))
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

// Delete removes a saved lesson.
func (l *Library) Delete(ctx context.Context, key string) error {
	if err := l.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete lesson %s: %w", key, err)
	}
	l.log.Info("lesson deleted", zap.String("key", key))
	return nil
}

// IsSaved reports whether a lesson is stored under key.
func (l *Library) IsSaved(ctx context.Context, key string) (bool, error) {
	keys, err := l.SavedKeys(ctx)
	if err != nil {
		return false, err
	}
	return keys[key], nil
}

// SavedKeys returns the set of stored lesson keys.
func (l *Library) SavedKeys(ctx context.Context) (map[string]bool, error) {
	keys, err := l.repo.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lesson keys: %w", err)
	}
	return keys, nil
}

// Count returns the number of saved lessons.
func (l *Library) Count(ctx context.Context) (int, error) {
	return l.repo.Count(ctx)
}

// Resolve maps a saved lesson back to its catalog unit. Lessons whose track,
// subject or week no longer exist return curriculum.ErrNotFound.
func (l *Library) Resolve(s StoredLesson) (curriculum.Unit, error) {
	return l.catalog.Unit(s.TrackID, s.SubjectID, s.Quarter, s.Week)
}

func decode(row store.SavedLesson) (*StoredLesson, error) {
	var lesson lessons.Lesson
	if err := json.Unmarshal(row.Content, &lesson); err != nil {
		return nil, fmt.Errorf("decode lesson %s: %w", row.Key, err)
	}
	return &StoredLesson{
		Key:         row.Key,
		TrackID:     row.TrackID,
		SubjectID:   row.SubjectID,
		Quarter:     row.Quarter,
		Week:        row.Week,
		SavedAt:     row.SavedAt,
		Lesson:      &lesson,
		TrackName:   row.TrackName,
		SubjectName: row.SubjectName,
		SubjectIcon: row.SubjectIcon,
	}, nil
}

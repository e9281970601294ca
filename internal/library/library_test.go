package library

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/llm"
	"github.com/abhisek/masterreview/internal/store"
)

type fakeGen struct {
	mu    sync.Mutex
	calls []lessons.GenerateRequest
	fail  map[string]bool
	// hang blocks these units until the context ends.
	hang map[string]bool
}

func (f *fakeGen) Generate(ctx context.Context, req lessons.GenerateRequest) (*lessons.Lesson, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.fail[req.Unit.Key()] {
		return nil, lessons.ErrGenerationFailed
	}
	if f.hang[req.Unit.Key()] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &lessons.Lesson{
		Title:      req.Unit.Subject.Name + " " + req.Unit.Week.Name,
		Overview:   req.Focus,
		References: lessons.DefaultReferences,
	}, nil
}

func (f *fakeGen) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestLibrary(t *testing.T, gen Generator) *Library {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(curriculum.Default(), st.LessonRepo(), gen, nil)
}

func unit(t *testing.T, quarter int, week string) curriculum.Unit {
	t.Helper()
	u, err := curriculum.Default().Unit("jhs-7", "jhs7-mathematics", quarter, week)
	require.NoError(t, err)
	return u
}

func TestOpen_GeneratesWhenNotSaved(t *testing.T) {
	gen := &fakeGen{}
	lib := newTestLibrary(t, gen)

	res, err := lib.Open(t.Context(), unit(t, 1, "Week 1-2"), "")
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, "Mathematics Week 1-2", res.Lesson.Title)
	assert.Equal(t, 1, gen.callCount())

	saved, err := lib.IsSaved(t.Context(), unit(t, 1, "Week 1-2").Key())
	require.NoError(t, err)
	assert.False(t, saved, "opening does not save")
}

func TestOpen_ServesSavedLesson(t *testing.T) {
	gen := &fakeGen{}
	lib := newTestLibrary(t, gen)
	u := unit(t, 2, "Week 3-4")

	_, err := lib.Save(t.Context(), u, &lessons.Lesson{Title: "Stored"})
	require.NoError(t, err)

	res, err := lib.Open(t.Context(), u, "")
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, "Stored", res.Lesson.Title)
	assert.Equal(t, 0, gen.callCount())
}

func TestOpen_FocusAlwaysRegenerates(t *testing.T) {
	gen := &fakeGen{}
	lib := newTestLibrary(t, gen)
	u := unit(t, 2, "Week 3-4")

	_, err := lib.Save(t.Context(), u, &lessons.Lesson{Title: "Stored"})
	require.NoError(t, err)

	res, err := lib.Open(t.Context(), u, "fractions")
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, "fractions", res.Lesson.Overview)
	require.Equal(t, 1, gen.callCount())
	assert.Equal(t, "fractions", gen.calls[0].Focus)
}

func TestOpen_Offline(t *testing.T) {
	lib := newTestLibrary(t, nil)
	assert.False(t, lib.Online())

	_, err := lib.Open(t.Context(), unit(t, 1, "Week 1-2"), "")
	assert.ErrorIs(t, err, ErrOffline)

	_, err = lib.Save(t.Context(), unit(t, 1, "Week 1-2"), &lessons.Lesson{Title: "Saved earlier"})
	require.NoError(t, err)
	res, err := lib.Open(t.Context(), unit(t, 1, "Week 1-2"), "")
	require.NoError(t, err)
	assert.True(t, res.FromCache)
}

func TestOpen_GenerationErrorPropagates(t *testing.T) {
	u := unit(t, 1, "Week 1-2")
	lib := newTestLibrary(t, &fakeGen{fail: map[string]bool{u.Key(): true}})

	_, err := lib.Open(t.Context(), u, "")
	assert.ErrorIs(t, err, lessons.ErrGenerationFailed)
}

func TestOpen_WithLessonService(t *testing.T) {
	raw, _ := json.Marshal("# Linear Equations\nAn equation balances two expressions on either side.\n## Foundational Principles\nBody.")
	svc := lessons.NewService(llm.NewMockProvider(llm.MockResponse{Content: raw}), lessons.DefaultConfig())
	lib := newTestLibrary(t, svc)

	res, err := lib.Open(t.Context(), unit(t, 3, "Week 5-6"), "")
	require.NoError(t, err)
	assert.Equal(t, "Linear Equations", res.Lesson.Title)
	assert.Equal(t, "An equation balances two expressions on either side.", res.Lesson.Overview)
}

func TestSaveGetListDelete(t *testing.T) {
	lib := newTestLibrary(t, nil)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	lib.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first := unit(t, 1, "Week 1-2")
	second := unit(t, 4, "Week 7-8")
	_, err := lib.Save(t.Context(), first, &lessons.Lesson{Title: "First", KeyTerms: []string{"slope"}})
	require.NoError(t, err)
	saved, err := lib.Save(t.Context(), second, &lessons.Lesson{Title: "Second"})
	require.NoError(t, err)
	assert.Equal(t, "jhs-7-jhs7-mathematics-4-Week 7-8", saved.Key)
	assert.Equal(t, "📐", saved.SubjectIcon)

	got, err := lib.Get(t.Context(), first.Key())
	require.NoError(t, err)
	assert.Equal(t, "First", got.Lesson.Title)
	assert.Equal(t, []string{"slope"}, got.Lesson.KeyTerms)
	assert.Equal(t, "JHS Grade 7", got.TrackName)
	assert.Equal(t, "Mathematics", got.SubjectName)
	assert.Equal(t, 1, got.Quarter)
	assert.Equal(t, "Week 1-2", got.Week)

	list, err := lib.List(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Lesson.Title, "newest first")

	n, err := lib.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, lib.Delete(t.Context(), first.Key()))
	_, err = lib.Get(t.Context(), first.Key())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, lib.Delete(t.Context(), first.Key()), store.ErrNotFound)
}

func TestResolve(t *testing.T) {
	lib := newTestLibrary(t, nil)
	u := unit(t, 2, "Week 5-6")
	saved, err := lib.Save(t.Context(), u, &lessons.Lesson{Title: "x"})
	require.NoError(t, err)

	resolved, err := lib.Resolve(saved)
	require.NoError(t, err)
	assert.Equal(t, u.Key(), resolved.Key())

	stale := saved
	stale.TrackID = "retired-track"
	_, err = lib.Resolve(stale)
	assert.ErrorIs(t, err, curriculum.ErrNotFound)
}

func TestPrefetch(t *testing.T) {
	failKey := unit(t, 2, "Week 3-4").Key()
	gen := &fakeGen{fail: map[string]bool{failKey: true}}
	lib := newTestLibrary(t, gen)

	_, err := lib.Save(t.Context(), unit(t, 1, "Week 1-2"), &lessons.Lesson{Title: "kept"})
	require.NoError(t, err)

	var mu sync.Mutex
	var events []PrefetchEvent
	report, err := lib.Prefetch(t.Context(), "jhs-7", "jhs7-mathematics", PrefetchOptions{
		Concurrency: 4,
		Progress: func(ev PrefetchEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	assert.Len(t, report.Skipped, 1)
	assert.Len(t, report.Generated, 14)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, failKey, report.Failed[0].Key)
	assert.ErrorIs(t, report.Failed[0].Err, lessons.ErrGenerationFailed)
	assert.Equal(t, 15, gen.callCount())
	assert.Len(t, events, 16)
	assert.Equal(t, 16, events[len(events)-1].Done)

	n, err := lib.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	kept, err := lib.Get(t.Context(), unit(t, 1, "Week 1-2").Key())
	require.NoError(t, err)
	assert.Equal(t, "kept", kept.Lesson.Title)
}

func TestPrefetch_Force(t *testing.T) {
	gen := &fakeGen{}
	lib := newTestLibrary(t, gen)
	_, err := lib.Save(t.Context(), unit(t, 1, "Week 1-2"), &lessons.Lesson{Title: "old"})
	require.NoError(t, err)

	report, err := lib.Prefetch(t.Context(), "jhs-7", "jhs7-mathematics", PrefetchOptions{Force: true})
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Len(t, report.Generated, 16)

	got, err := lib.Get(t.Context(), unit(t, 1, "Week 1-2").Key())
	require.NoError(t, err)
	assert.Equal(t, "Mathematics Week 1-2", got.Lesson.Title)
}

func TestPrefetch_Errors(t *testing.T) {
	_, err := newTestLibrary(t, nil).Prefetch(t.Context(), "jhs-7", "jhs7-mathematics", PrefetchOptions{})
	assert.ErrorIs(t, err, ErrOffline)

	_, err = newTestLibrary(t, &fakeGen{}).Prefetch(t.Context(), "jhs-7", "nope", PrefetchOptions{})
	assert.ErrorIs(t, err, curriculum.ErrNotFound)
}

func TestPrefetch_TimeoutIsPerUnit(t *testing.T) {
	slowKey := unit(t, 1, "Week 1-2").Key()
	gen := &fakeGen{hang: map[string]bool{slowKey: true}}
	lib := newTestLibrary(t, gen)

	report, err := lib.Prefetch(t.Context(), "jhs-7", "jhs7-mathematics", PrefetchOptions{
		Concurrency: 4,
		Timeout:     50 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Len(t, report.Generated, 15)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, slowKey, report.Failed[0].Key)
	assert.ErrorIs(t, report.Failed[0].Err, context.DeadlineExceeded)
}

func TestPrefetch_Cancelled(t *testing.T) {
	gen := &fakeGen{}
	lib := newTestLibrary(t, gen)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := lib.Prefetch(ctx, "jhs-7", "jhs7-mathematics", PrefetchOptions{Concurrency: 2})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, gen.callCount())
}

func TestWriteVisual(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "visuals")
	v := &lessons.Visual{Data: []byte("png-bytes"), MIMEType: "image/png"}

	path, err := WriteVisual(dir, "jhs-7-jhs7-mathematics-1-Week 1-2", 1, v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jhs-7-jhs7-mathematics-1-Week_1-2-s2.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

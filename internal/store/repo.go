package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

// SavedLesson is a persisted lesson row. Content is the lesson document
// encoded as JSON by the caller.
type SavedLesson struct {
	Key         string
	TrackID     string
	SubjectID   string
	Quarter     int
	Week        string
	TrackName   string
	SubjectName string
	SubjectIcon string
	SavedAt     time.Time
	Content     []byte
}

// LessonRepo stores lessons for offline viewing.
type LessonRepo interface {
	// Upsert inserts or replaces the lesson stored under l.Key.
	Upsert(ctx context.Context, l SavedLesson) error

	// Get returns the lesson under key, or nil if none is stored.
	Get(ctx context.Context, key string) (*SavedLesson, error)

	// List returns every stored lesson, newest first.
	List(ctx context.Context) ([]SavedLesson, error)

	// Keys returns the set of stored keys without loading content.
	Keys(ctx context.Context) (map[string]bool, error)

	// Delete removes the lesson under key. Returns ErrNotFound if absent.
	Delete(ctx context.Context, key string) error

	Count(ctx context.Context) (int, error)
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// LLMRequestEventData captures a single provider call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	TraceID      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored provider call.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls sharing a purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates calls served by one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries provider calls.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	// GetLLMEvent returns the event with id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Definition is a cached glossary entry.
type Definition struct {
	Term       string
	Definition string
	Model      string
	CreatedAt  time.Time
}

// DefinitionRepo caches glossary lookups across runs.
type DefinitionRepo interface {
	// Get returns the definition for term, or nil if none is cached.
	Get(ctx context.Context, term string) (*Definition, error)
	Put(ctx context.Context, d Definition) error
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

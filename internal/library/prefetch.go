package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
)

// PrefetchOptions controls a bulk download.
type PrefetchOptions struct {
	Concurrency int
	// Force regenerates units that are already saved.
	Force bool
	// Timeout bounds each unit's generation. Zero means no per-unit limit.
	Timeout time.Duration
	// Progress is called once per unit as it finishes. Calls are serialized.
	Progress func(PrefetchEvent)
}

// PrefetchEvent reports the outcome for one unit.
type PrefetchEvent struct {
	Key     string
	Skipped bool
	Err     error
	Done    int
	Total   int
}

// PrefetchFailure records a unit that could not be generated or saved.
type PrefetchFailure struct {
	Key string
	Err error
}

// PrefetchReport summarizes a bulk download.
type PrefetchReport struct {
	Generated []string
	Skipped   []string
	Failed    []PrefetchFailure
}

// Prefetch generates and saves every week of a subject. One failed week
// does not stop the others; failures are collected in the report.
func (l *Library) Prefetch(ctx context.Context, trackID, subjectID string, opts PrefetchOptions) (PrefetchReport, error) {
	var report PrefetchReport
	if l.gen == nil {
		return report, ErrOffline
	}

	units, err := l.catalog.Units(trackID, subjectID)
	if err != nil {
		return report, err
	}
	saved, err := l.SavedKeys(ctx)
	if err != nil {
		return report, err
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	var (
		mu   sync.Mutex
		done int
	)
	finish := func(ev PrefetchEvent) {
		mu.Lock()
		defer mu.Unlock()
		done++
		ev.Done, ev.Total = done, len(units)
		switch {
		case ev.Skipped:
			report.Skipped = append(report.Skipped, ev.Key)
		case ev.Err != nil:
			report.Failed = append(report.Failed, PrefetchFailure{Key: ev.Key, Err: ev.Err})
		default:
			report.Generated = append(report.Generated, ev.Key)
		}
		if opts.Progress != nil {
			opts.Progress(ev)
		}
	}

	l.log.Info("prefetch started",
		zap.String("track", trackID),
		zap.String("subject", subjectID),
		zap.Int("units", len(units)),
		zap.Int("concurrency", limit),
	)

	var g errgroup.Group
	g.SetLimit(limit)
	for _, u := range units {
		key := u.Key()
		if saved[key] && !opts.Force {
			finish(PrefetchEvent{Key: key, Skipped: true})
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				finish(PrefetchEvent{Key: key, Err: err})
				return nil
			}
			lesson, err := l.generateUnit(ctx, u, opts.Timeout)
			if err == nil {
				_, err = l.Save(ctx, u, lesson)
			}
			if err != nil {
				l.log.Warn("prefetch unit failed", zap.String("key", key), zap.Error(err))
			}
			finish(PrefetchEvent{Key: key, Err: err})
			return nil
		})
	}
	_ = g.Wait()

	l.log.Info("prefetch finished",
		zap.Int("generated", len(report.Generated)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
	)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("prefetch interrupted: %w", err)
	}
	return report, nil
}

func (l *Library) generateUnit(ctx context.Context, u curriculum.Unit, timeout time.Duration) (*lessons.Lesson, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return l.gen.Generate(ctx, lessons.GenerateRequest{Unit: u})
}

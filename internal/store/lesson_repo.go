package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const lessonsTable = "saved_lessons"

var lessonColumns = []string{
	"key", "track_id", "subject_id", "quarter", "week",
	"track_name", "subject_name", "subject_icon", "saved_at", "content",
}

type lessonRepo struct {
	drv *entsql.Driver
}

func (r *lessonRepo) Upsert(ctx context.Context, l SavedLesson) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(lessonsTable).
		Columns(lessonColumns...).
		Values(l.Key, l.TrackID, l.SubjectID, l.Quarter, l.Week,
			l.TrackName, l.SubjectName, l.SubjectIcon, formatTime(l.SavedAt), string(l.Content)).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("upsert lesson %q: %w", l.Key, err)
	}
	return nil
}

func (r *lessonRepo) Get(ctx context.Context, key string) (*SavedLesson, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(lessonColumns...).
		From(entsql.Table(lessonsTable)).
		Where(entsql.EQ("key", key)).
		Query()
	lessons, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get lesson %q: %w", key, err)
	}
	if len(lessons) == 0 {
		return nil, nil
	}
	return &lessons[0], nil
}

func (r *lessonRepo) List(ctx context.Context) ([]SavedLesson, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(lessonColumns...).
		From(entsql.Table(lessonsTable)).
		OrderBy(entsql.Desc("saved_at"), "key").
		Query()
	lessons, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func (r *lessonRepo) Keys(ctx context.Context) (map[string]bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("key").
		From(entsql.Table(lessonsTable)).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list lesson keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan lesson key: %w", err)
		}
		keys[k] = true
	}
	return keys, rows.Err()
}

func (r *lessonRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(lessonsTable).
		Where(entsql.EQ("key", key)).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete lesson %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lesson %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("lesson %q: %w", key, ErrNotFound)
	}
	return nil
}

func (r *lessonRepo) Count(ctx context.Context) (int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(lessonsTable)).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan lesson count: %w", err)
		}
	}
	return n, rows.Err()
}

func (r *lessonRepo) query(ctx context.Context, query string, args []any) ([]SavedLesson, error) {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedLesson
	for rows.Next() {
		var (
			l       SavedLesson
			savedAt string
			content string
		)
		if err := rows.Scan(&l.Key, &l.TrackID, &l.SubjectID, &l.Quarter, &l.Week,
			&l.TrackName, &l.SubjectName, &l.SubjectIcon, &savedAt, &content); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		l.SavedAt = parseTime(savedAt)
		l.Content = []byte(content)
		out = append(out, l)
	}
	return out, rows.Err()
}

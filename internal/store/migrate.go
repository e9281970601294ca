package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// migrations run in order on every open. Each must be idempotent, so
// only CREATE ... IF NOT EXISTS statements belong here.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS saved_lessons (
		key          TEXT PRIMARY KEY,
		track_id     TEXT NOT NULL,
		subject_id   TEXT NOT NULL,
		quarter      INTEGER NOT NULL,
		week         TEXT NOT NULL,
		track_name   TEXT NOT NULL DEFAULT '',
		subject_name TEXT NOT NULL DEFAULT '',
		subject_icon TEXT NOT NULL DEFAULT '',
		saved_at     TEXT NOT NULL,
		content      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_lessons_saved_at ON saved_lessons(saved_at)`,

	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at    TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		trace_id      TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_events(purpose)`,

	`CREATE TABLE IF NOT EXISTS definitions (
		term       TEXT PRIMARY KEY,
		definition TEXT NOT NULL,
		model      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	for i, stmt := range migrations {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const definitionsTable = "definitions"

type definitionRepo struct {
	drv *entsql.Driver
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func (r *definitionRepo) Get(ctx context.Context, term string) (*Definition, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("term", "definition", "model", "created_at").
		From(entsql.Table(definitionsTable)).
		Where(entsql.EQ("term", normalizeTerm(term))).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("get definition %q: %w", term, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var (
		d         Definition
		createdAt string
	)
	if err := rows.Scan(&d.Term, &d.Definition, &d.Model, &createdAt); err != nil {
		return nil, fmt.Errorf("scan definition: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)
	return &d, nil
}

func (r *definitionRepo) Put(ctx context.Context, d Definition) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(definitionsTable).
		Columns("term", "definition", "model", "created_at").
		Values(normalizeTerm(d.Term), d.Definition, d.Model, formatTime(d.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("term"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put definition %q: %w", d.Term, err)
	}
	return nil
}

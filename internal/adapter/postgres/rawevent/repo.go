// Package rawevent implements the append-only raw event log using PostgreSQL.
package rawevent

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telestash/node/internal/adapter/postgres"
	"github.com/telestash/node/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo appends inbound events verbatim for audit and replay. Rows are never
// updated or deleted by this service.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new raw event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Record inserts the verbatim update payload as a jsonb row. Insertion order
// is carried by the bigserial primary key.
func (r *Repo) Record(ctx context.Context, update *domain.Update) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	payload, err := json.Marshal(update)
	if err != nil {
		return postgres.MapError(err, "raw_event")
	}

	query, args, err := builder.Insert("raw_event").
		Columns("event").
		Values(payload).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "raw_event")
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "raw_event")
	}

	return nil
}

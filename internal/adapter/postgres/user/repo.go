// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telestash/node/internal/adapter/postgres"
	"github.com/telestash/node/internal/domain"
)

const table = "app_user"

var columns = []string{
	"id", "sender_id", "username", "first_name", "last_name",
	"email", "active", "state", "first_contact_at",
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetBySenderID returns the user owning the given platform sender id.
func (r *Repo) GetBySenderID(ctx context.Context, senderID int64) (*domain.User, error) {
	return r.getBy(ctx, sq.Eq{"sender_id": senderID})
}

// GetByEmail returns the user holding the given email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email})
}

func (r *Repo) getBy(ctx context.Context, pred sq.Eq) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Select(columns...).From(table).Where(pred).ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user")
	}

	var u domain.User
	err = q.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.SenderID, &u.Username, &u.FirstName, &u.LastName,
		&u.Email, &u.Active, &u.State, &u.FirstContactAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user")
	}

	return &u, nil
}

// Create inserts a new user. The unique index on sender_id makes concurrent
// first contacts from the same sender surface as domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Insert(table).
		Columns(columns...).
		Values(u.ID, u.SenderID, u.Username, u.FirstName, u.LastName,
			u.Email, u.Active, u.State, u.FirstContactAt).
		Suffix("RETURNING first_contact_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user")
	}

	created := *u
	if err := q.QueryRow(ctx, query, args...).Scan(&created.FirstContactAt); err != nil {
		return nil, postgres.MapError(err, "user")
	}

	return &created, nil
}

// SaveState persists a session-state transition.
func (r *Repo) SaveState(ctx context.Context, id uuid.UUID, state domain.SessionState) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Update(table).
		Set("state", state).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "user")
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SaveEmail persists the email field (nil clears it) together with the
// session state. Used by the registration workflow for both the tentative
// write and the compensating rollback.
func (r *Repo) SaveEmail(ctx context.Context, id uuid.UUID, email *string, state domain.SessionState) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Update(table).
		Set("email", email).
		Set("state", state).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "user")
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "user")
	}

	return nil
}

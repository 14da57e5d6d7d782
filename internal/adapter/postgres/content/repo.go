// Package content implements persistence for uploaded binary content and
// the document/photo metadata rows referencing it.
package content

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telestash/node/internal/adapter/postgres"
	"github.com/telestash/node/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides content persistence backed by PostgreSQL. The raw bytes live
// in binary_content; app_document and app_photo rows reference them by id.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new content repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// StoreBinary writes the uploaded bytes and returns the stored content.
func (r *Repo) StoreBinary(ctx context.Context, data []byte) (*domain.BinaryContent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	bc := &domain.BinaryContent{ID: uuid.New(), Bytes: data}

	query, args, err := builder.Insert("binary_content").
		Columns("id", "bytes").
		Values(bc.ID, bc.Bytes).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "binary_content")
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "binary_content")
	}

	return bc, nil
}

// CreateDocument inserts a document metadata row.
func (r *Repo) CreateDocument(ctx context.Context, d *domain.Document) (*domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Insert("app_document").
		Columns("id", "owner_id", "platform_id", "name", "mime_type", "size", "content_id").
		Values(d.ID, d.OwnerID, d.PlatformID, d.Name, d.MimeType, d.Size, d.ContentID).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "document")
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "document")
	}

	return d, nil
}

// CreatePhoto inserts a photo metadata row.
func (r *Repo) CreatePhoto(ctx context.Context, p *domain.Photo) (*domain.Photo, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := builder.Insert("app_photo").
		Columns("id", "owner_id", "platform_id", "size", "content_id").
		Values(p.ID, p.OwnerID, p.PlatformID, p.Size, p.ContentID).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "photo")
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "photo")
	}

	return p, nil
}

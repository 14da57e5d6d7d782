// Package ingest persists uploaded content and issues retrieval links.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/telestash/node/internal/domain"
)

// fileFetcher downloads the bytes behind a platform file reference.
type fileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// contentRepo persists binary content and the metadata rows referencing it.
type contentRepo interface {
	StoreBinary(ctx context.Context, data []byte) (*domain.BinaryContent, error)
	CreateDocument(ctx context.Context, d *domain.Document) (*domain.Document, error)
	CreatePhoto(ctx context.Context, p *domain.Photo) (*domain.Photo, error)
}

// txManager defines the transaction manager interface needed by the ingest service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements content ingestion and link issuance.
type Service struct {
	log      *slog.Logger
	files    fileFetcher
	contents contentRepo
	tx       txManager
	linkBase string
}

// NewService creates a new ingest service instance. linkBase is the deployed
// retrieval endpoint prefix, without a trailing slash.
func NewService(logger *slog.Logger, files fileFetcher, contents contentRepo, tx txManager, linkBase string) *Service {
	return &Service{
		log:      logger.With("service", "ingest"),
		files:    files,
		contents: contents,
		tx:       tx,
		linkBase: linkBase,
	}
}

// IngestDocument fetches the attached document's bytes and persists them
// together with the metadata row, atomically. Returns domain.ErrUpload when
// the message carries no document descriptor or the fetch/store fails.
func (s *Service) IngestDocument(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Document, error) {
	if msg == nil || msg.Document == nil {
		return nil, fmt.Errorf("ingest.IngestDocument: no document attached: %w", domain.ErrUpload)
	}
	meta := msg.Document

	data, err := s.files.Fetch(ctx, meta.FileID)
	if err != nil {
		return nil, fmt.Errorf("ingest.IngestDocument: %w", err)
	}

	var doc *domain.Document
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		bc, err := s.contents.StoreBinary(txCtx, data)
		if err != nil {
			return err
		}

		doc, err = s.contents.CreateDocument(txCtx, &domain.Document{
			ID:         uuid.New(),
			OwnerID:    owner.ID,
			PlatformID: meta.FileID,
			Name:       meta.FileName,
			MimeType:   meta.MimeType,
			Size:       meta.FileSize,
			ContentID:  bc.ID,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ingest.IngestDocument: %w: %w", domain.ErrUpload, err)
	}

	s.log.InfoContext(ctx, "document ingested",
		slog.String("document_id", doc.ID.String()),
		slog.String("owner_id", owner.ID.String()),
	)

	return doc, nil
}

// IngestPhoto persists the largest declared size variant of the attached
// photo. Returns domain.ErrUpload when the message carries no photo or the
// fetch/store fails.
func (s *Service) IngestPhoto(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Photo, error) {
	size := msg.LargestPhoto()
	if size == nil {
		return nil, fmt.Errorf("ingest.IngestPhoto: no photo attached: %w", domain.ErrUpload)
	}

	data, err := s.files.Fetch(ctx, size.FileID)
	if err != nil {
		return nil, fmt.Errorf("ingest.IngestPhoto: %w", err)
	}

	var photo *domain.Photo
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		bc, err := s.contents.StoreBinary(txCtx, data)
		if err != nil {
			return err
		}

		photo, err = s.contents.CreatePhoto(txCtx, &domain.Photo{
			ID:         uuid.New(),
			OwnerID:    owner.ID,
			PlatformID: size.FileID,
			Size:       size.FileSize,
			ContentID:  bc.ID,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ingest.IngestPhoto: %w: %w", domain.ErrUpload, err)
	}

	s.log.InfoContext(ctx, "photo ingested",
		slog.String("photo_id", photo.ID.String()),
		slog.String("owner_id", owner.ID.String()),
	)

	return photo, nil
}

// Link builds the retrieval URL for a stored content record. Pure string
// construction: stable for a given (id, kind) pair.
func (s *Service) Link(contentID uuid.UUID, kind domain.LinkKind) string {
	return fmt.Sprintf("%s/%s/%s", s.linkBase, kind, contentID)
}

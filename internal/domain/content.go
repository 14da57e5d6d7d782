package domain

import "github.com/google/uuid"

// LinkKind discriminates retrieval links so the download endpoint can
// dispatch on the content type.
type LinkKind string

const (
	LinkKindDocument LinkKind = "doc"
	LinkKindPhoto    LinkKind = "photo"
)

func (k LinkKind) String() string { return string(k) }

func (k LinkKind) IsValid() bool {
	switch k {
	case LinkKindDocument, LinkKindPhoto:
		return true
	}
	return false
}

// BinaryContent holds the raw bytes of an uploaded file. Document and Photo
// rows reference it by id; the bytes themselves are never loaded by this
// pipeline after ingestion.
type BinaryContent struct {
	ID    uuid.UUID
	Bytes []byte
}

// Document is the metadata record for an uploaded document, owned by the
// user who sent it. Created on successful ingestion; never mutated.
type Document struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	PlatformID string
	Name       string
	MimeType   string
	Size       int64
	ContentID  uuid.UUID
}

// Photo is the metadata record for an uploaded photo. The ingestion pipeline
// keeps only the largest size variant the platform declared.
type Photo struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	PlatformID string
	Size       int64
	ContentID  uuid.UUID
}

// Package identity resolves platform senders to persistent users.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/telestash/node/internal/domain"
)

// userRepo defines the user repository interface needed by the identity service.
type userRepo interface {
	GetBySenderID(ctx context.Context, senderID int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}

// Service implements get-or-create identity resolution.
type Service struct {
	log   *slog.Logger
	users userRepo
}

// NewService creates a new identity service instance.
func NewService(logger *slog.Logger, users userRepo) *Service {
	return &Service{
		log:   logger.With("service", "identity"),
		users: users,
	}
}

// ResolveOrCreate returns the user owning the sender id, creating an
// inactive user in the base session state on first contact. Existing users
// are returned untouched. A concurrent first contact losing the insert race
// on the sender-id unique index falls back to reading the winner's row.
func (s *Service) ResolveOrCreate(ctx context.Context, sender *domain.Sender) (*domain.User, error) {
	u, err := s.users.GetBySenderID(ctx, sender.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("identity.ResolveOrCreate: %w", err)
	}

	created, err := s.users.Create(ctx, domain.NewUser(sender.ID, sender.Username, sender.FirstName, sender.LastName))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the first-contact race; the winner's row is authoritative.
			return s.users.GetBySenderID(ctx, sender.ID)
		}
		return nil, fmt.Errorf("identity.ResolveOrCreate: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.String("user_id", created.ID.String()),
		slog.Int64("sender_id", created.SenderID),
	)

	return created, nil
}

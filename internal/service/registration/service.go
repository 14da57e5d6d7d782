// Package registration drives the email-verification registration workflow.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/telestash/node/internal/domain"
)

// Reply texts returned to the user. Every workflow branch ends in exactly
// one of these.
const (
	msgAlreadyRegistered = "You are already registered!"
	msgCheckInbox        = "We have sent you an email. Follow the link in it to confirm your registration."
	msgEnterEmail        = "Please enter your email address:"
	msgInvalidEmail      = "Please enter a valid email address. To cancel the command, type /cancel"
	msgEmailTaken        = "This email address is already in use. Please enter another one. To cancel the command, type /cancel"
	msgMailFailedFmt     = "Sending an email to %s failed. Please try again later."
)

// userRepo defines the user repository interface needed by the registration service.
type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SaveState(ctx context.Context, id uuid.UUID, state domain.SessionState) error
	SaveEmail(ctx context.Context, id uuid.UUID, email *string, state domain.SessionState) error
}

// tokenizer derives the verification token embedded in the mail link.
type tokenizer interface {
	TokenFor(userID uuid.UUID) string
}

// mailer dispatches the verification email through the mail service.
type mailer interface {
	Dispatch(ctx context.Context, token, emailTo string) error
}

// Service implements the two-step registration workflow.
type Service struct {
	log      *slog.Logger
	users    userRepo
	tokens   tokenizer
	mail     mailer
	validate *validator.Validate
}

// NewService creates a new registration service instance.
func NewService(logger *slog.Logger, users userRepo, tokens tokenizer, mail mailer) *Service {
	return &Service{
		log:      logger.With("service", "registration"),
		users:    users,
		tokens:   tokens,
		mail:     mail,
		validate: validator.New(),
	}
}

// Begin starts registration for the user. Already-active users and users
// with a pending verification are answered without any mutation; otherwise
// the session moves to the awaiting-email state.
func (s *Service) Begin(ctx context.Context, user *domain.User) (string, error) {
	if user.Active {
		return msgAlreadyRegistered, nil
	}
	if user.Email != nil {
		return msgCheckInbox, nil
	}

	if err := s.users.SaveState(ctx, user.ID, domain.SessionStateAwaitingEmail); err != nil {
		return "", fmt.Errorf("registration.Begin: %w", err)
	}
	user.State = domain.SessionStateAwaitingEmail

	return msgEnterEmail, nil
}

// SubmitEmail validates the candidate address and, when it is well-formed
// and unclaimed, stores it, returns the session to the base state and
// dispatches the verification email. A failed dispatch is compensated by
// clearing the email again, so the user can retry with a fresh /register.
func (s *Service) SubmitEmail(ctx context.Context, user *domain.User, emailText string) (string, error) {
	email := strings.TrimSpace(emailText)
	if err := s.validate.Var(email, "required,email"); err != nil {
		vErr := domain.NewValidationError("email", "must be a well-formed address")
		s.log.DebugContext(ctx, "email rejected",
			slog.String("user_id", user.ID.String()),
			slog.String("error", vErr.Error()),
		)
		return msgInvalidEmail, nil
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return msgEmailTaken, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("registration.SubmitEmail: %w", err)
	}

	// Tentative local mutation; compensated below if dispatch fails.
	if err := s.users.SaveEmail(ctx, user.ID, &email, domain.SessionStateBase); err != nil {
		return "", fmt.Errorf("registration.SubmitEmail: %w", err)
	}
	user.Email = &email
	user.State = domain.SessionStateBase

	token := s.tokens.TokenFor(user.ID)
	if err := s.mail.Dispatch(ctx, token, email); err != nil {
		s.log.ErrorContext(ctx, "mail dispatch failed",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)

		if rbErr := s.users.SaveEmail(ctx, user.ID, nil, domain.SessionStateBase); rbErr != nil {
			s.log.ErrorContext(ctx, "email rollback failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", rbErr.Error()),
			)
		} else {
			user.Email = nil
		}

		return fmt.Sprintf(msgMailFailedFmt, email), nil
	}

	s.log.InfoContext(ctx, "verification email dispatched",
		slog.String("user_id", user.ID.String()))

	return msgCheckInbox, nil
}

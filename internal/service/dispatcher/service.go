// Package dispatcher orchestrates inbound event processing: audit logging,
// identity resolution, the per-user session state machine and reply
// production.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/telestash/node/internal/domain"
)

// rawLog appends inbound events for audit. Best-effort: failures are logged
// and never block processing.
type rawLog interface {
	Record(ctx context.Context, update *domain.Update) error
}

// identityResolver maps a platform sender to a persistent user.
type identityResolver interface {
	ResolveOrCreate(ctx context.Context, sender *domain.Sender) (*domain.User, error)
}

// registrar drives the email registration workflow.
type registrar interface {
	Begin(ctx context.Context, user *domain.User) (string, error)
	SubmitEmail(ctx context.Context, user *domain.User, emailText string) (string, error)
}

// ingestor persists uploads and issues retrieval links.
type ingestor interface {
	IngestDocument(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Document, error)
	IngestPhoto(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Photo, error)
	Link(contentID uuid.UUID, kind domain.LinkKind) string
}

// answerProducer hands composed replies to the asynchronous delivery
// channel. Fire-and-forget: delivery is the channel's concern.
type answerProducer interface {
	Produce(ctx context.Context, answer domain.Answer) error
}

// userRepo defines the state-persistence slice needed for the cancel escape
// hatch.
type userRepo interface {
	SaveState(ctx context.Context, id uuid.UUID, state domain.SessionState) error
}

// Service is the command dispatcher and session state machine.
type Service struct {
	log      *slog.Logger
	raw      rawLog
	identity identityResolver
	reg      registrar
	ingest   ingestor
	producer answerProducer
	users    userRepo
	locks    *keyedMutex
}

// NewService creates a new dispatcher service instance.
func NewService(
	logger *slog.Logger,
	raw rawLog,
	identity identityResolver,
	reg registrar,
	ingest ingestor,
	producer answerProducer,
	users userRepo,
) *Service {
	return &Service{
		log:      logger.With("service", "dispatcher"),
		raw:      raw,
		identity: identity,
		reg:      reg,
		ingest:   ingest,
		producer: producer,
		users:    users,
		locks:    newKeyedMutex(),
	}
}

// Handle processes one inbound update end to end. Events from the same
// sender are serialized; every well-formed event terminates in exactly one
// outbound reply. The per-sender lock is held for the whole unit of work,
// including the outbound mail and file-fetch calls: a sender's next event
// must observe the completed state transition of the previous one.
func (s *Service) Handle(ctx context.Context, update *domain.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		s.log.ErrorContext(ctx, "update without message or sender",
			slog.Int64("update_id", update.ID))
		return
	}

	s.locks.Lock(msg.From.ID)
	defer s.locks.Unlock(msg.From.ID)

	// Best-effort audit append; never gates the pipeline.
	if err := s.raw.Record(ctx, update); err != nil {
		s.log.ErrorContext(ctx, "raw event append failed",
			slog.Int64("update_id", update.ID),
			slog.String("error", err.Error()),
		)
	}

	user, err := s.identity.ResolveOrCreate(ctx, msg.From)
	if err != nil {
		s.log.ErrorContext(ctx, "identity resolution failed",
			slog.Int64("sender_id", msg.From.ID),
			slog.String("error", err.Error()),
		)
		s.send(ctx, msg.Chat.ID, msgGenericError)
		return
	}

	var reply string
	switch {
	case msg.HasDocument():
		reply = s.processContent(ctx, user, msg, domain.LinkKindDocument)
	case msg.HasPhoto():
		reply = s.processContent(ctx, user, msg, domain.LinkKindPhoto)
	case msg.HasText():
		reply = s.processText(ctx, user, msg.Text)
	default:
		reply = msgUnsupportedType
	}

	s.send(ctx, msg.Chat.ID, reply)
}

// processText advances the session state machine for a text event and
// returns the reply. Transitions are total: every (state, command) pair has
// a defined outcome.
func (s *Service) processText(ctx context.Context, user *domain.User, text string) string {
	cmd := ParseCommand(text)

	// Escape hatch: cancel fires regardless of current state.
	if cmd == CommandCancel {
		if err := s.users.SaveState(ctx, user.ID, domain.SessionStateBase); err != nil {
			s.log.ErrorContext(ctx, "cancel transition failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()),
			)
			return msgGenericError
		}
		user.State = domain.SessionStateBase
		return msgCancelled
	}

	switch user.State {
	case domain.SessionStateBase:
		return s.processCommand(ctx, user, cmd)

	case domain.SessionStateAwaitingEmail:
		reply, err := s.reg.SubmitEmail(ctx, user, text)
		if err != nil {
			s.log.ErrorContext(ctx, "email submission failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()),
			)
			return msgGenericError
		}
		return reply

	default:
		s.log.ErrorContext(ctx, "unknown session state",
			slog.String("user_id", user.ID.String()),
			slog.String("state", user.State.String()),
		)
		return msgGenericError
	}
}

// processCommand dispatches a base-state command.
func (s *Service) processCommand(ctx context.Context, user *domain.User, cmd Command) string {
	switch cmd {
	case CommandRegister:
		reply, err := s.reg.Begin(ctx, user)
		if err != nil {
			s.log.ErrorContext(ctx, "registration begin failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()),
			)
			return msgGenericError
		}
		return reply
	case CommandHelp:
		return msgHelp
	case CommandStart:
		return msgWelcome
	default:
		return msgUnknownCommand
	}
}

// processContent gates and ingests a document or photo event and returns
// the reply. Inactive users and users mid-command are rejected before any
// ingestion is attempted.
func (s *Service) processContent(ctx context.Context, user *domain.User, msg *domain.Message, kind domain.LinkKind) string {
	if !user.Active {
		return msgNotActivated
	}
	if user.State != domain.SessionStateBase {
		return msgFinishCommand
	}

	var (
		contentID uuid.UUID
		err       error
	)
	switch kind {
	case domain.LinkKindPhoto:
		var photo *domain.Photo
		if photo, err = s.ingest.IngestPhoto(ctx, user, msg); err == nil {
			contentID = photo.ID
		}
	default:
		var doc *domain.Document
		if doc, err = s.ingest.IngestDocument(ctx, user, msg); err == nil {
			contentID = doc.ID
		}
	}

	if err != nil {
		if errors.Is(err, domain.ErrUpload) {
			s.log.ErrorContext(ctx, "upload failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()),
			)
			return msgUploadFailed
		}
		s.log.ErrorContext(ctx, "content ingestion failed",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)
		return msgGenericError
	}

	link := s.ingest.Link(contentID, kind)
	if kind == domain.LinkKindPhoto {
		return fmt.Sprintf(msgPhotoUploadedFmt, link)
	}
	return fmt.Sprintf(msgDocumentUploadedFmt, link)
}

// send hands the reply to the outbound producer. Best-effort: a failed
// hand-off is logged, not retried.
func (s *Service) send(ctx context.Context, chatID int64, text string) {
	if err := s.producer.Produce(ctx, domain.Answer{ChatID: chatID, Text: text}); err != nil {
		s.log.ErrorContext(ctx, "answer hand-off failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

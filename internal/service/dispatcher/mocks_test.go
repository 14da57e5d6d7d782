package dispatcher

// Hand-maintained mocks for the dispatcher's collaborator interfaces,
// in the moq style used across the repository.

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/telestash/node/internal/domain"
)

var _ rawLog = &rawLogMock{}

type rawLogMock struct {
	RecordFunc func(ctx context.Context, update *domain.Update) error

	mu          sync.Mutex
	recordCalls []*domain.Update
}

func (m *rawLogMock) Record(ctx context.Context, update *domain.Update) error {
	m.mu.Lock()
	m.recordCalls = append(m.recordCalls, update)
	m.mu.Unlock()
	if m.RecordFunc == nil {
		return nil
	}
	return m.RecordFunc(ctx, update)
}

func (m *rawLogMock) RecordCalls() []*domain.Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordCalls
}

var _ identityResolver = &identityResolverMock{}

type identityResolverMock struct {
	ResolveOrCreateFunc func(ctx context.Context, sender *domain.Sender) (*domain.User, error)
}

func (m *identityResolverMock) ResolveOrCreate(ctx context.Context, sender *domain.Sender) (*domain.User, error) {
	if m.ResolveOrCreateFunc == nil {
		panic("identityResolverMock.ResolveOrCreateFunc: method is nil but identityResolver.ResolveOrCreate was just called")
	}
	return m.ResolveOrCreateFunc(ctx, sender)
}

var _ registrar = &registrarMock{}

type registrarMock struct {
	BeginFunc       func(ctx context.Context, user *domain.User) (string, error)
	SubmitEmailFunc func(ctx context.Context, user *domain.User, emailText string) (string, error)
}

func (m *registrarMock) Begin(ctx context.Context, user *domain.User) (string, error) {
	if m.BeginFunc == nil {
		panic("registrarMock.BeginFunc: method is nil but registrar.Begin was just called")
	}
	return m.BeginFunc(ctx, user)
}

func (m *registrarMock) SubmitEmail(ctx context.Context, user *domain.User, emailText string) (string, error) {
	if m.SubmitEmailFunc == nil {
		panic("registrarMock.SubmitEmailFunc: method is nil but registrar.SubmitEmail was just called")
	}
	return m.SubmitEmailFunc(ctx, user, emailText)
}

var _ ingestor = &ingestorMock{}

type ingestorMock struct {
	IngestDocumentFunc func(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Document, error)
	IngestPhotoFunc    func(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Photo, error)
	LinkFunc           func(contentID uuid.UUID, kind domain.LinkKind) string

	mu            sync.Mutex
	documentCalls int
	photoCalls    int
}

func (m *ingestorMock) IngestDocument(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Document, error) {
	m.mu.Lock()
	m.documentCalls++
	m.mu.Unlock()
	if m.IngestDocumentFunc == nil {
		panic("ingestorMock.IngestDocumentFunc: method is nil but ingestor.IngestDocument was just called")
	}
	return m.IngestDocumentFunc(ctx, owner, msg)
}

func (m *ingestorMock) IngestPhoto(ctx context.Context, owner *domain.User, msg *domain.Message) (*domain.Photo, error) {
	m.mu.Lock()
	m.photoCalls++
	m.mu.Unlock()
	if m.IngestPhotoFunc == nil {
		panic("ingestorMock.IngestPhotoFunc: method is nil but ingestor.IngestPhoto was just called")
	}
	return m.IngestPhotoFunc(ctx, owner, msg)
}

func (m *ingestorMock) Link(contentID uuid.UUID, kind domain.LinkKind) string {
	if m.LinkFunc == nil {
		panic("ingestorMock.LinkFunc: method is nil but ingestor.Link was just called")
	}
	return m.LinkFunc(contentID, kind)
}

func (m *ingestorMock) IngestDocumentCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.documentCalls
}

func (m *ingestorMock) IngestPhotoCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.photoCalls
}

var _ answerProducer = &answerProducerMock{}

type answerProducerMock struct {
	ProduceFunc func(ctx context.Context, answer domain.Answer) error

	mu           sync.Mutex
	produceCalls []domain.Answer
}

func (m *answerProducerMock) Produce(ctx context.Context, answer domain.Answer) error {
	m.mu.Lock()
	m.produceCalls = append(m.produceCalls, answer)
	m.mu.Unlock()
	if m.ProduceFunc == nil {
		return nil
	}
	return m.ProduceFunc(ctx, answer)
}

func (m *answerProducerMock) ProduceCalls() []domain.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.produceCalls
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	SaveStateFunc func(ctx context.Context, id uuid.UUID, state domain.SessionState) error

	mu             sync.Mutex
	saveStateCalls []domain.SessionState
}

func (m *userRepoMock) SaveState(ctx context.Context, id uuid.UUID, state domain.SessionState) error {
	m.mu.Lock()
	m.saveStateCalls = append(m.saveStateCalls, state)
	m.mu.Unlock()
	if m.SaveStateFunc == nil {
		return nil
	}
	return m.SaveStateFunc(ctx, id, state)
}

func (m *userRepoMock) SaveStateCalls() []domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveStateCalls
}

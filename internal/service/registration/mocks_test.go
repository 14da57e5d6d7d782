package registration

// Hand-maintained mocks for the registration service's collaborator
// interfaces, in the moq style used across the repository.

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/telestash/node/internal/domain"
)

var _ userRepo = &userRepoMock{}

type saveEmailCall struct {
	ID    uuid.UUID
	Email *string
	State domain.SessionState
}

type userRepoMock struct {
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	SaveStateFunc  func(ctx context.Context, id uuid.UUID, state domain.SessionState) error
	SaveEmailFunc  func(ctx context.Context, id uuid.UUID, email *string, state domain.SessionState) error

	mu             sync.Mutex
	saveStateCalls []domain.SessionState
	saveEmailCalls []saveEmailCall
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc == nil {
		panic("userRepoMock.GetByEmailFunc: method is nil but userRepo.GetByEmail was just called")
	}
	return m.GetByEmailFunc(ctx, email)
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

func (m *userRepoMock) SaveEmail(ctx context.Context, id uuid.UUID, email *string, state domain.SessionState) error {
	m.mu.Lock()
	m.saveEmailCalls = append(m.saveEmailCalls, saveEmailCall{ID: id, Email: email, State: state})
	m.mu.Unlock()
	if m.SaveEmailFunc == nil {
		return nil
	}
	return m.SaveEmailFunc(ctx, id, email, state)
}

func (m *userRepoMock) SaveStateCalls() []domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveStateCalls
}

func (m *userRepoMock) SaveEmailCalls() []saveEmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveEmailCalls
}

var _ tokenizer = &tokenizerMock{}

type tokenizerMock struct {
	TokenForFunc func(userID uuid.UUID) string
}

func (m *tokenizerMock) TokenFor(userID uuid.UUID) string {
	if m.TokenForFunc == nil {
		panic("tokenizerMock.TokenForFunc: method is nil but tokenizer.TokenFor was just called")
	}
	return m.TokenForFunc(userID)
}

var _ mailer = &mailerMock{}

type dispatchCall struct {
	Token   string
	EmailTo string
}

type mailerMock struct {
	DispatchFunc func(ctx context.Context, token, emailTo string) error

	mu            sync.Mutex
	dispatchCalls []dispatchCall
}

func (m *mailerMock) Dispatch(ctx context.Context, token, emailTo string) error {
	m.mu.Lock()
	m.dispatchCalls = append(m.dispatchCalls, dispatchCall{Token: token, EmailTo: emailTo})
	m.mu.Unlock()
	if m.DispatchFunc == nil {
		return nil
	}
	return m.DispatchFunc(ctx, token, emailTo)
}

func (m *mailerMock) DispatchCalls() []dispatchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchCalls
}

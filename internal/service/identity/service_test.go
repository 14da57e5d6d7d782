package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telestash/node/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetBySenderIDFunc func(ctx context.Context, senderID int64) (*domain.User, error)
	CreateFunc        func(ctx context.Context, u *domain.User) (*domain.User, error)

	mu          sync.Mutex
	createCalls []*domain.User
}

func (m *userRepoMock) GetBySenderID(ctx context.Context, senderID int64) (*domain.User, error) {
	if m.GetBySenderIDFunc == nil {
		panic("userRepoMock.GetBySenderIDFunc: method is nil but userRepo.GetBySenderID was just called")
	}
	return m.GetBySenderIDFunc(ctx, senderID)
}

func (m *userRepoMock) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, u)
	m.mu.Unlock()
	if m.CreateFunc == nil {
		panic("userRepoMock.CreateFunc: method is nil but userRepo.Create was just called")
	}
	return m.CreateFunc(ctx, u)
}

func (m *userRepoMock) CreateCalls() []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func newTestService(users *userRepoMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, users)
}

func TestResolveOrCreate_ExistingUserReturnedUntouched(t *testing.T) {
	t.Parallel()

	existing := &domain.User{ID: uuid.New(), SenderID: 42, Active: true, State: domain.SessionStateBase}
	users := &userRepoMock{
		GetBySenderIDFunc: func(ctx context.Context, senderID int64) (*domain.User, error) {
			assert.Equal(t, int64(42), senderID)
			return existing, nil
		},
	}
	svc := newTestService(users)

	got, err := svc.ResolveOrCreate(context.Background(), &domain.Sender{ID: 42, Username: "renamed"})

	require.NoError(t, err)
	assert.Same(t, existing, got)
	assert.Empty(t, users.CreateCalls())
}

func TestResolveOrCreate_FirstContactCreatesInactiveBaseUser(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetBySenderIDFunc: func(ctx context.Context, senderID int64) (*domain.User, error) {
			return nil, fmt.Errorf("user by sender: %w", domain.ErrNotFound)
		},
		CreateFunc: func(ctx context.Context, u *domain.User) (*domain.User, error) {
			return u, nil
		},
	}
	svc := newTestService(users)

	sender := &domain.Sender{ID: 42, Username: "alice", FirstName: "Alice", LastName: "Liddell"}
	got, err := svc.ResolveOrCreate(context.Background(), sender)

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.SenderID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Liddell", got.LastName)
	assert.False(t, got.Active, "first contact never activates")
	assert.Equal(t, domain.SessionStateBase, got.State)
	assert.Nil(t, got.Email)
	assert.False(t, got.FirstContactAt.IsZero())
}

func TestResolveOrCreate_LostInsertRaceFallsBackToWinner(t *testing.T) {
	t.Parallel()

	winner := &domain.User{ID: uuid.New(), SenderID: 42}
	lookups := 0
	users := &userRepoMock{}
	users.GetBySenderIDFunc = func(ctx context.Context, senderID int64) (*domain.User, error) {
		lookups++
		if lookups == 1 {
			return nil, domain.ErrNotFound
		}
		return winner, nil
	}
	users.CreateFunc = func(ctx context.Context, u *domain.User) (*domain.User, error) {
		return nil, fmt.Errorf("insert user: %w", domain.ErrAlreadyExists)
	}
	svc := newTestService(users)

	got, err := svc.ResolveOrCreate(context.Background(), &domain.Sender{ID: 42})

	require.NoError(t, err)
	assert.Same(t, winner, got)
	assert.Equal(t, 2, lookups)
}

func TestResolveOrCreate_LookupFailureIsPropagated(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetBySenderIDFunc: func(ctx context.Context, senderID int64) (*domain.User, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newTestService(users)

	_, err := svc.ResolveOrCreate(context.Background(), &domain.Sender{ID: 42})

	require.Error(t, err)
	assert.Empty(t, users.CreateCalls())
}

func TestResolveOrCreate_CreateFailureIsPropagated(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetBySenderIDFunc: func(ctx context.Context, senderID int64) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, u *domain.User) (*domain.User, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newTestService(users)

	_, err := svc.ResolveOrCreate(context.Background(), &domain.Sender{ID: 42})

	require.Error(t, err)
}

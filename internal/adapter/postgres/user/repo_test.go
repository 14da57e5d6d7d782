package user_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/telestash/node/internal/adapter/postgres/testhelper"
	"github.com/telestash/node/internal/adapter/postgres/user"
	"github.com/telestash/node/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) *user.Repo {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool)
}

// randSenderID returns a sender id that will not collide across parallel tests.
func randSenderID() int64 {
	return rand.Int63n(1<<40) + 1_000_000
}

func seedUser(t *testing.T, repo *user.Repo) *domain.User {
	t.Helper()
	created, err := repo.Create(context.Background(),
		domain.NewUser(randSenderID(), "seed", "Seed", "User"))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return created
}

// ---------------------------------------------------------------------------
// Create / lookup
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	u := domain.NewUser(randSenderID(), "alice", "Alice", "Liddell")

	got, err := repo.Create(ctx, u)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID != u.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, u.ID)
	}
	if got.SenderID != u.SenderID {
		t.Errorf("SenderID mismatch: got %d, want %d", got.SenderID, u.SenderID)
	}
	if got.Active {
		t.Error("new user must be inactive")
	}
	if got.State != domain.SessionStateBase {
		t.Errorf("State mismatch: got %s, want %s", got.State, domain.SessionStateBase)
	}
	if got.FirstContactAt.IsZero() {
		t.Error("FirstContactAt must be set")
	}
}

func TestRepo_Create_DuplicateSenderID(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	senderID := randSenderID()
	if _, err := repo.Create(ctx, domain.NewUser(senderID, "first", "First", "")); err != nil {
		t.Fatalf("Create first user: %v", err)
	}

	_, err := repo.Create(ctx, domain.NewUser(senderID, "second", "Second", ""))
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_GetBySenderID_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	seeded := seedUser(t, repo)

	got, err := repo.GetBySenderID(ctx, seeded.SenderID)
	if err != nil {
		t.Fatalf("GetBySenderID: unexpected error: %v", err)
	}

	if got.ID != seeded.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, seeded.ID)
	}
	if got.Email != nil {
		t.Errorf("Email should be nil, got %v", *got.Email)
	}
}

func TestRepo_GetBySenderID_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.GetBySenderID(context.Background(), randSenderID())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetByEmail_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	seeded := seedUser(t, repo)
	email := "get-by-email-" + uuid.New().String()[:8] + "@example.com"
	if err := repo.SaveEmail(ctx, seeded.ID, &email, domain.SessionStateBase); err != nil {
		t.Fatalf("SaveEmail: %v", err)
	}

	got, err := repo.GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetByEmail: unexpected error: %v", err)
	}

	if got.ID != seeded.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, seeded.ID)
	}
}

func TestRepo_GetByEmail_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.GetByEmail(context.Background(),
		"nonexistent-"+uuid.New().String()[:8]+"@example.com")
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// State and email transitions
// ---------------------------------------------------------------------------

func TestRepo_SaveState_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	seeded := seedUser(t, repo)

	if err := repo.SaveState(ctx, seeded.ID, domain.SessionStateAwaitingEmail); err != nil {
		t.Fatalf("SaveState: unexpected error: %v", err)
	}

	got, err := repo.GetBySenderID(ctx, seeded.SenderID)
	if err != nil {
		t.Fatalf("GetBySenderID: %v", err)
	}
	if got.State != domain.SessionStateAwaitingEmail {
		t.Errorf("State mismatch: got %s, want %s", got.State, domain.SessionStateAwaitingEmail)
	}
}

func TestRepo_SaveState_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	err := repo.SaveState(context.Background(), uuid.New(), domain.SessionStateBase)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_SaveEmail_SetAndClear(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	seeded := seedUser(t, repo)
	email := "save-email-" + uuid.New().String()[:8] + "@example.com"

	if err := repo.SaveEmail(ctx, seeded.ID, &email, domain.SessionStateBase); err != nil {
		t.Fatalf("SaveEmail set: %v", err)
	}
	got, err := repo.GetBySenderID(ctx, seeded.SenderID)
	if err != nil {
		t.Fatalf("GetBySenderID: %v", err)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("Email mismatch: got %v, want %q", got.Email, email)
	}

	// Compensating clear, as performed after a failed mail dispatch.
	if err := repo.SaveEmail(ctx, seeded.ID, nil, domain.SessionStateBase); err != nil {
		t.Fatalf("SaveEmail clear: %v", err)
	}
	got, err = repo.GetBySenderID(ctx, seeded.SenderID)
	if err != nil {
		t.Fatalf("GetBySenderID: %v", err)
	}
	if got.Email != nil {
		t.Errorf("Email should be nil after clearing, got %v", *got.Email)
	}
}

func TestRepo_SaveEmail_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	email := "dup-email-" + uuid.New().String()[:8] + "@example.com"

	first := seedUser(t, repo)
	if err := repo.SaveEmail(ctx, first.ID, &email, domain.SessionStateBase); err != nil {
		t.Fatalf("SaveEmail first: %v", err)
	}

	second := seedUser(t, repo)
	err := repo.SaveEmail(ctx, second.ID, &email, domain.SessionStateBase)
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_FirstContactAtRoundTrip(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	u := domain.NewUser(randSenderID(), "clock", "Clock", "")
	created, err := repo.Create(ctx, u)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetBySenderID(ctx, u.SenderID)
	if err != nil {
		t.Fatalf("GetBySenderID: %v", err)
	}
	if !got.FirstContactAt.Truncate(time.Microsecond).Equal(created.FirstContactAt.Truncate(time.Microsecond)) {
		t.Errorf("FirstContactAt mismatch: got %v, want %v", got.FirstContactAt, created.FirstContactAt)
	}
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}

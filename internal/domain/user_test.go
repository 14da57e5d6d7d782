package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	u := NewUser(42, "alice", "Alice", "Liddell")

	assert.NotEqual(t, [16]byte{}, [16]byte(u.ID))
	assert.Equal(t, int64(42), u.SenderID)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.Active, "new users start deactivated")
	assert.Equal(t, SessionStateBase, u.State)
	assert.Nil(t, u.Email)
	assert.False(t, u.FirstContactAt.IsZero())
}

func TestSessionStateIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SessionStateBase.IsValid())
	assert.True(t, SessionStateAwaitingEmail.IsValid())
	assert.False(t, SessionState("").IsValid())
	assert.False(t, SessionState("LIMBO").IsValid())
}

func TestLinkKindIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, LinkKindDocument.IsValid())
	assert.True(t, LinkKindPhoto.IsValid())
	assert.False(t, LinkKind("video").IsValid())
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionState is the per-user conversation mode. It governs whether inbound
// text is interpreted as a command or as an answer to a pending prompt.
type SessionState string

const (
	// SessionStateBase is the idle state: commands are accepted.
	SessionStateBase SessionState = "BASE"
	// SessionStateAwaitingEmail means registration is in progress and the
	// next text message is treated as the candidate email address.
	SessionStateAwaitingEmail SessionState = "AWAIT_EMAIL"
)

func (s SessionState) String() string { return string(s) }

func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateBase, SessionStateAwaitingEmail:
		return true
	}
	return false
}

// User represents a chat-platform user known to the node.
//
// SenderID is the platform-supplied identifier and uniquely determines at
// most one User (enforced by a unique index). Email, when set, is unique
// across all users. FirstContactAt is set on creation and never changes.
type User struct {
	ID             uuid.UUID
	SenderID       int64
	Username       string
	FirstName      string
	LastName       string
	Email          *string
	Active         bool
	State          SessionState
	FirstContactAt time.Time
}

// NewUser builds a transient user for a first-contact sender: inactive and
// in the base session state.
func NewUser(senderID int64, username, firstName, lastName string) *User {
	return &User{
		ID:             uuid.New(),
		SenderID:       senderID,
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		Active:         false,
		State:          SessionStateBase,
		FirstContactAt: time.Now().UTC(),
	}
}

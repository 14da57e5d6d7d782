// Package auth derives verification tokens from internal identifiers.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/google/uuid"
)

// Tokenizer computes one-way, keyed tokens from user ids. The token is what
// the mail service embeds in verification links, so neither the mail service
// nor the verification endpoint ever sees a raw internal id. The same secret
// must be configured on the verifying side.
type Tokenizer struct {
	secret []byte
}

// NewTokenizer creates a Tokenizer with the given secret key.
func NewTokenizer(secret string) *Tokenizer {
	return &Tokenizer{secret: []byte(secret)}
}

// TokenFor returns the HMAC-SHA256 of the user id, base64url-encoded.
// Deterministic for a given (id, secret) pair and not reversible.
func (t *Tokenizer) TokenFor(userID uuid.UUID) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(userID.String()))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

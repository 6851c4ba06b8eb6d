package session

import (
	"errors"

	"bookreview/pkg/domain"
)

// Session is the client's authentication state: identity plus bearer
// credential. Both fields are absent when unauthenticated. The same
// shape is used in memory and as the durable record.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Empty reports whether the session carries neither identity nor credential.
func (s Session) Empty() bool {
	return s.User == nil && s.Token == ""
}

// ErrNotFound is returned by Load and Token when no durable record exists.
var ErrNotFound = errors.New("session: no stored record")

// CredentialStore persists the session record. Implementations keep two
// entries in step: the combined record and a raw token copy used for
// defensive fallback reads. Save writes both, Clear removes both.
type CredentialStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error

	// Token reads the raw fallback credential without decoding the full
	// record. Returns ErrNotFound when absent.
	Token() (string, error)
}

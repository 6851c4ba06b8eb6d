package session

import (
	"errors"
	"fmt"
	"sync"

	"bookreview/pkg/domain"
)

// Manager owns the in-memory session and is its single writer. Every
// mutation writes through to the credential store before returning, so
// a crash immediately after a call never loses the new state. The
// manager makes no network calls.
//
// One Manager is composed at process startup and passed explicitly to
// the gateway and to commands; there is no package-level instance.
type Manager struct {
	mu    sync.Mutex
	store CredentialStore
	cur   Session
}

// NewManager builds a manager over store. Call Initialize to hydrate
// from durable storage.
func NewManager(store CredentialStore) *Manager {
	return &Manager{store: store}
}

// Initialize reconciles in-memory state with durable storage, adopting
// the durable record whenever its token differs from the in-memory one.
// This resolves storage mutated outside this instance (a previous run,
// or external clearing). Safe to call repeatedly; a second call with
// unchanged storage is a no-op.
func (m *Manager) Initialize() error {
	rec, err := m.store.Load()
	if errors.Is(err, ErrNotFound) {
		rec = Session{}
	} else if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Token != m.cur.Token {
		m.cur = rec
	}
	return nil
}

// Login atomically adopts the token and identity from a login response
// and persists the combined record. The token is never left set against
// a stale identity: both fields change under one lock, one durable write.
func (m *Manager) Login(res domain.LoginResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := Session{
		User: &domain.User{
			ID:       res.UserID,
			Username: res.Username,
			Email:    res.Email,
		},
		Token: res.AccessToken,
	}
	if err := m.store.Save(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.cur = next
	return nil
}

// SetUser updates the identity without touching the credential, e.g.
// after a profile refresh, and persists the updated record.
func (m *Manager) SetUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.cur
	next.User = user
	if err := m.store.Save(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.cur = next
	return nil
}

// SetToken updates the credential alone and persists the updated record.
func (m *Manager) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.cur
	next.Token = token
	if err := m.store.Save(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.cur = next
	return nil
}

// Logout clears identity and credential in memory and in durable
// storage. Idempotent: logging out while logged out is a no-op.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.cur = Session{}
	return nil
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Token returns the current bearer credential, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Token
}

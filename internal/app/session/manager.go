// Package session owns the session-to-account mapping. An account is
// created at first login, lives for the session's duration, and is
// discarded on logout — there is no durable user store behind it.
//
// The manager also owns serialization: all account access goes through
// WithAccount, which holds a per-account mutex so at most one ledger
// operation is in flight per account at a time.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/observability"
)

// Fixed-credential stand-in for the out-of-scope identity provider.
const (
	standInUsername = "user"
	standInPassword = "user"
)

type entry struct {
	mu      sync.Mutex
	account *domain.Account
}

// Manager maps session tokens to accounts.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	store    domain.LedgerStore
	log      *zap.SugaredLogger
}

// NewManager creates a Manager. store and log may be nil.
func NewManager(store domain.LedgerStore, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		sessions: make(map[string]*entry),
		store:    store,
		log:      log,
	}
}

// Login validates the fixed credentials and creates a fresh account bound
// to a new session token.
func (m *Manager) Login(username, password string) (string, error) {
	if username != standInUsername || password != standInPassword {
		observability.Logins.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	acct := &domain.Account{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[token] = &entry{account: acct}
	m.mu.Unlock()

	observability.Logins.WithLabelValues("ok").Inc()
	observability.ActiveSessions.Inc()
	m.log.Infow("session created", "account", acct.ID, "username", username)

	if m.store != nil {
		if err := m.store.SaveSnapshot(acct); err != nil {
			m.log.Warnw("save initial snapshot", "account", acct.ID, "err", err)
		}
	}
	return token, nil
}

// Logout discards the session and its account.
func (m *Manager) Logout(token string) error {
	m.mu.Lock()
	e, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}

	observability.ActiveSessions.Dec()
	m.log.Infow("session ended", "account", e.account.ID)
	return nil
}

// WithAccount runs fn against the session's account while holding its
// mutex. fn must not retain the *Account past its return.
func (m *Manager) WithAccount(token string, fn func(*domain.Account) error) error {
	m.mu.Lock()
	e, ok := m.sessions[token]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrSessionNotFound, token)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.account)
}

// Snapshot returns a deep copy of the session's account for rendering.
func (m *Manager) Snapshot(token string) (domain.Account, error) {
	var cp domain.Account
	err := m.WithAccount(token, func(a *domain.Account) error {
		cp = a.Clone()
		return nil
	})
	return cp, err
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

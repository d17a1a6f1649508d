// Package session owns the client-side authentication lifecycle: acquiring a
// credential, deriving the current identity from it, keeping it fresh in the
// background, and tearing it down.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jovincart/storefront/apperrors"
	"github.com/jovincart/storefront/credential"
	"github.com/jovincart/storefront/gateway"
	"github.com/jovincart/storefront/token"
)

// State is the session lifecycle state.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	Refreshing
	Expired
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	case Expired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// DefaultRefreshInterval matches the original client's ten-minute silent
// refresh cadence.
const DefaultRefreshInterval = 10 * time.Minute

// AuthAPI is the external auth collaborator. *gateway.Client satisfies it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (gateway.TokenPair, error)
	GoogleLogin(ctx context.Context, email string) (gateway.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Snapshot is the in-memory projection of the current credential. It is
// recomputed from the store on every process start, never persisted itself.
type Snapshot struct {
	State         State
	Identity      *token.Claims
	Authenticated bool
}

// Manager is the single writer of the credential store. All transitions run
// under one mutex; the epoch counter fences in-flight refreshes against
// explicit login/logout (a stale refresh response must never resurrect a
// cleared credential).
type Manager struct {
	store credential.Store
	api   AuthAPI
	log   *zap.Logger
	now   func() time.Time

	mu     sync.Mutex
	state  State
	claims *token.Claims
	epoch  uint64

	refreshCancel context.CancelFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store credential.Store, api AuthAPI, log *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		api:   api,
		log:   log,
		now:   time.Now,
		state: Unauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize re-derives the session from the credential store. A missing,
// undecodable or expired credential leaves the manager unauthenticated, and
// the bad credential is cleared rather than kept around.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Load(credential.AccessToken)
	if err != nil {
		m.state = Unauthenticated
		return
	}

	claims, err := token.Decode(raw)
	if err != nil {
		m.log.Warn("stored credential undecodable, clearing", zap.Error(err))
		_ = m.store.Clear()
		m.state = Unauthenticated
		return
	}
	if claims.Expired(m.now()) {
		m.log.Info("stored credential expired, clearing", zap.String("email", claims.Email))
		_ = m.store.Clear()
		m.state = Unauthenticated
		return
	}

	m.claims = &claims
	m.state = Authenticated
	m.log.Info("session restored", zap.String("email", claims.Email), zap.String("role", string(claims.Role)))
}

// LoginWithPassword authenticates against the backend and adopts the returned
// token pair. Backend rejections arrive pre-typed from the gateway
// (ErrUserNotFound, ErrIncorrectPassword).
func (m *Manager) LoginWithPassword(ctx context.Context, email, password string) error {
	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.adopt(pair)
}

// LoginWithGoogle exchanges a federated identity assertion for a session.
// apperrors.ErrAccountNotRegistered passes through untouched: it routes the
// caller to account setup, it does not mean the login path is broken.
func (m *Manager) LoginWithGoogle(ctx context.Context, email string) error {
	pair, err := m.api.GoogleLogin(ctx, email)
	if err != nil {
		return err
	}
	return m.adopt(pair)
}

// adopt stores and decodes a fresh token pair. Bumping the epoch invalidates
// any refresh response still in flight.
func (m *Manager) adopt(pair gateway.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	claims, err := token.Decode(pair.AccessToken)
	if err != nil {
		// "valid but unreadable" must not exist: reject the whole login.
		m.epoch++
		_ = m.store.Clear()
		m.claims = nil
		m.state = Unauthenticated
		return err
	}
	if claims.Expired(m.now()) {
		// A token that is dead on arrival is a backend fault, not a session.
		m.epoch++
		_ = m.store.Clear()
		m.claims = nil
		m.state = Unauthenticated
		return apperrors.ErrExpiredCredential
	}

	m.epoch++
	if err := m.store.Save(credential.AccessToken, pair.AccessToken); err != nil {
		return err
	}
	if pair.RefreshToken != "" {
		if err := m.store.Save(credential.RefreshToken, pair.RefreshToken); err != nil {
			return err
		}
	}
	m.claims = &claims
	m.state = Authenticated
	m.log.Info("login succeeded", zap.String("email", claims.Email), zap.String("role", string(claims.Role)))
	return nil
}

// Logout clears the credential store and stops the background refresh. The
// epoch bump fences any refresh already in flight.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.epoch++
	_ = m.store.Clear()
	m.claims = nil
	m.state = Unauthenticated
	cancel := m.refreshCancel
	m.refreshCancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.log.Info("logged out")
}

// Invalidate drops the session without the logout logging; the access guard
// calls it when it finds a dead credential during navigation.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	_ = m.store.Clear()
	m.claims = nil
	m.state = Unauthenticated
}

// StartRefresh launches the background silent-refresh loop. The loop is owned
// by the manager, not any UI lifetime: it runs until Logout or Close.
func (m *Manager) StartRefresh(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	m.mu.Lock()
	if m.refreshCancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.refreshCancel = cancel
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.RefreshNow(ctx)
			}
		}
	}()
}

// RefreshNow performs one silent refresh attempt. On failure both credentials
// are cleared and the session drops to Unauthenticated. A response that
// arrives after an intervening login/logout is discarded.
func (m *Manager) RefreshNow(ctx context.Context) {
	m.mu.Lock()
	if m.state != Authenticated {
		m.mu.Unlock()
		return
	}
	refreshToken, err := m.store.Load(credential.RefreshToken)
	if err != nil {
		// No refresh credential stored; keep the session until it expires.
		m.mu.Unlock()
		return
	}
	epoch := m.epoch
	m.state = Refreshing
	m.mu.Unlock()

	access, err := m.api.Refresh(ctx, refreshToken)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		m.log.Debug("discarding stale refresh response")
		return
	}

	if err != nil {
		m.log.Warn("silent refresh failed, clearing session", zap.Error(err))
		_ = m.store.Clear()
		m.claims = nil
		m.state = Unauthenticated
		return
	}

	claims, derr := token.Decode(access)
	if derr != nil {
		m.log.Warn("refreshed credential undecodable, clearing session", zap.Error(derr))
		_ = m.store.Clear()
		m.claims = nil
		m.state = Unauthenticated
		return
	}

	if err := m.store.Save(credential.AccessToken, access); err != nil {
		// The old credential is still stored and still live; go back to
		// Authenticated so the next tick retries instead of finding the
		// session stuck mid-refresh.
		m.log.Error("failed to persist refreshed credential", zap.Error(err))
		m.state = Authenticated
		return
	}
	m.claims = &claims
	m.state = Authenticated
}

// Close stops the background refresh loop. The session state itself is left
// alone; it is re-derived from the store on next start.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.refreshCancel
	m.refreshCancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Current returns the session snapshot, lazily demoting an authenticated
// session whose credential has meanwhile expired.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Authenticated && m.claims != nil && m.claims.Expired(m.now()) {
		m.state = Expired
	}

	// A session mid-refresh still has a live credential; navigation must not
	// bounce to login just because the timer fired.
	live := m.state == Authenticated || m.state == Refreshing

	snap := Snapshot{State: m.state, Authenticated: live}
	if m.claims != nil && live {
		c := *m.claims
		snap.Identity = &c
	}
	return snap
}

// HasRole reports whether the current identity carries the required role.
func (m *Manager) HasRole(required token.Role) bool {
	snap := m.Current()
	return snap.Authenticated && snap.Identity != nil && snap.Identity.Role == required
}

// UserID returns the identifier used for cart and order ownership (the
// account email; the backend has no separate user id on the wire).
func (m *Manager) UserID() (string, bool) {
	snap := m.Current()
	if !snap.Authenticated || snap.Identity == nil {
		return "", false
	}
	return snap.Identity.Email, true
}

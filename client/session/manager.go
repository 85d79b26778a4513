package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/auth/store"
	"github.com/viant/storefront/client/state"
	"golang.org/x/oauth2"
)

// ErrStaleSession is returned when a result arrives for a session that has since
// been signed out or replaced.
var ErrStaleSession = errors.New("session changed")

// ErrSignedOut is returned by operations requiring a signed-in user.
var ErrSignedOut = errors.New("not signed in")

// Manager owns the credential store and the state store and applies transitions
// to both under one lock.
type Manager struct {
	mu          sync.RWMutex
	credentials store.Store
	state       *state.Store
	// epoch changes with every sign-in and sign-out
	epoch  uint64
	synced uint64
	logger logrus.FieldLogger

	notifyMu  sync.Mutex
	listeners map[int]func(View)
	nextID    int
}

// ManagerOption represents a manager option
type ManagerOption func(m *Manager)

// WithManagerLogger sets the manager logger.
func WithManagerLogger(logger logrus.FieldLogger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager. A credential already held by credentials (for
// example restored from disk) starts a session that is not yet synced.
func NewManager(credentials store.Store, shared *state.Store, options ...ManagerOption) *Manager {
	ret := &Manager{
		credentials: credentials,
		state:       shared,
		epoch:       1,
		logger:      logrus.StandardLogger(),
		listeners:   map[int]func(View){},
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.WithField("component", "session")
	return ret
}

// Credentials returns the underlying credential store.
func (m *Manager) Credentials() store.Store {
	return m.credentials
}

// View returns the current session snapshot.
func (m *Manager) View(ctx context.Context) View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view(ctx)
}

func (m *Manager) view(ctx context.Context) View {
	_, ok := m.credentials.LookupToken(ctx)
	snapshot := m.state.Snapshot()
	return View{
		Authenticated: ok,
		Synced:        ok && m.synced == m.epoch,
		Profile:       snapshot.Profile,
		Cart:          snapshot.Cart,
	}
}

// Ticket returns the current credential and the ticket of its session.
func (m *Manager) Ticket(ctx context.Context) (*oauth2.Token, Ticket, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.credentials.LookupToken(ctx)
	return token, Ticket{epoch: m.epoch}, ok
}

// Subscribe registers listener for every committed transition and returns a
// function removing it. Listeners run sequentially in commit order and must not
// start transitions themselves.
func (m *Manager) Subscribe(listener func(View)) (cancel func()) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	return func() {
		m.notifyMu.Lock()
		defer m.notifyMu.Unlock()
		delete(m.listeners, id)
	}
}

// Establish makes token the current credential and starts a new session with an
// empty state.
func (m *Manager) Establish(ctx context.Context, token *oauth2.Token) (Ticket, error) {
	var ticket Ticket
	err := m.transition(ctx, func() error {
		if err := m.credentials.SetToken(ctx, token); err != nil {
			return err
		}
		m.state.Reset()
		m.epoch++
		ticket = Ticket{epoch: m.epoch}
		return nil
	})
	return ticket, err
}

// Publish stores profile and cart fetched in the session identified by ticket.
func (m *Manager) Publish(ctx context.Context, ticket Ticket, profile state.Profile, cart state.Cart) error {
	return m.transition(ctx, func() error {
		if err := m.check(ctx, ticket); err != nil {
			return err
		}
		if err := m.state.Replace(profile, cart); err != nil {
			return err
		}
		m.synced = ticket.epoch
		return nil
	})
}

// PatchProfile applies an acknowledged profile update.
func (m *Manager) PatchProfile(ctx context.Context, ticket Ticket, patch state.ProfilePatch) error {
	return m.transition(ctx, func() error {
		if err := m.check(ctx, ticket); err != nil {
			return err
		}
		return m.state.PatchProfile(patch)
	})
}

// PatchAvatar applies an acknowledged avatar update.
func (m *Manager) PatchAvatar(ctx context.Context, ticket Ticket, URL string) error {
	return m.transition(ctx, func() error {
		if err := m.check(ctx, ticket); err != nil {
			return err
		}
		return m.state.PatchAvatar(URL)
	})
}

// Clear removes the credential, profile and cart in one step.
func (m *Manager) Clear(ctx context.Context) error {
	return m.transition(ctx, func() error {
		return m.clear(ctx)
	})
}

// Renew replaces stale with the refreshed credential fresh, unless the session was
// signed out or replaced while the refresh was in flight. A nil stale renews only
// into an empty store. The session keeps its epoch, so synced state stays valid.
func (m *Manager) Renew(ctx context.Context, stale, fresh *oauth2.Token) error {
	err := m.transition(ctx, func() error {
		current, ok := m.credentials.LookupToken(ctx)
		switch {
		case stale == nil && ok:
			return ErrStaleSession
		case stale != nil && !ok:
			return ErrSignedOut
		case stale != nil && !store.SameToken(current, stale):
			return ErrStaleSession
		}
		return m.credentials.SetToken(ctx, fresh)
	})
	if errors.Is(err, ErrSignedOut) || errors.Is(err, ErrStaleSession) {
		m.logger.WithError(err).Debug("dropped refreshed credential")
	}
	return err
}

// Invalidate clears the session the server refused. A session started with a
// different credential is kept.
func (m *Manager) Invalidate(ctx context.Context, rejected *oauth2.Token) {
	err := m.transition(ctx, func() error {
		if current, ok := m.credentials.LookupToken(ctx); ok && !store.SameToken(current, rejected) {
			return ErrStaleSession
		}
		return m.clear(ctx)
	})
	switch {
	case errors.Is(err, ErrStaleSession):
		m.logger.Debug("ignored invalidation of a replaced credential")
	case err != nil:
		m.logger.WithError(err).Warn("failed to invalidate session")
	default:
		m.logger.Info("session invalidated")
	}
}

func (m *Manager) clear(ctx context.Context) error {
	// state goes first: a failing credential store must not leave a profile behind
	m.state.Reset()
	m.epoch++
	return m.credentials.ClearToken(ctx)
}

func (m *Manager) check(ctx context.Context, ticket Ticket) error {
	if ticket.epoch != m.epoch {
		return ErrStaleSession
	}
	if _, ok := m.credentials.LookupToken(ctx); !ok {
		return ErrStaleSession
	}
	return nil
}

// transition runs fn under the write lock and notifies listeners in commit order.
func (m *Manager) transition(ctx context.Context, fn func() error) error {
	m.mu.Lock()
	err := fn()
	if err != nil && (errors.Is(err, ErrStaleSession) || errors.Is(err, ErrSignedOut)) {
		m.mu.Unlock()
		return err
	}
	view := m.view(ctx)
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()
	for _, listener := range m.listeners {
		listener(view)
	}
	return err
}

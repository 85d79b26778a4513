package store

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// CredentialKey is the fixed key the access credential is persisted under.
const CredentialKey = "accessToken"

// ErrEmptyToken is returned when storing a credential without an access token.
var ErrEmptyToken = errors.New("empty access token")

// Store holds at most one current access credential.
//
// LookupToken never fails: a backend that cannot be read reports the credential as
// absent, which is the only state callers act on.
type Store interface {
	LookupToken(ctx context.Context) (*oauth2.Token, bool)
	SetToken(ctx context.Context, token *oauth2.Token) error
	ClearToken(ctx context.Context) error
}

type memoryStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewMemoryStore creates a process-local store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) LookupToken(_ context.Context) (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, false
	}
	return copyToken(m.token), true
}

func (m *memoryStore) SetToken(_ context.Context, token *oauth2.Token) error {
	if err := validate(token); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = copyToken(token)
	return nil
}

func (m *memoryStore) ClearToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return nil
}

// Bearer wraps an access token string returned by the sign-in or refresh endpoint.
func Bearer(accessToken string) *oauth2.Token {
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}

// SameToken reports whether a and b carry the same access token.
func SameToken(a, b *oauth2.Token) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AccessToken == b.AccessToken
}

func validate(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return ErrEmptyToken
	}
	return nil
}

func copyToken(token *oauth2.Token) *oauth2.Token {
	ret := *token
	return &ret
}

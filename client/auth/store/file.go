package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"golang.org/x/oauth2"
)

// FileStore persists the credential as a JSON document keyed by CredentialKey.
// The location is any URL supported by afs (a plain path is a local file).
type FileStore struct {
	mu       sync.RWMutex
	fs       afs.Service
	location string
	token    *oauth2.Token
}

// NewFileStore creates a store persisted at URL, loading any credential already there.
func NewFileStore(URL string) *FileStore {
	ret := &FileStore{fs: afs.New(), location: URL}
	_ = ret.load(context.Background())
	return ret
}

func (f *FileStore) LookupToken(_ context.Context) (*oauth2.Token, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.token == nil {
		return nil, false
	}
	return copyToken(f.token), true
}

func (f *FileStore) SetToken(ctx context.Context, token *oauth2.Token) error {
	if err := validate(token); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.save(ctx, token); err != nil {
		return err
	}
	f.token = copyToken(token)
	return nil
}

func (f *FileStore) ClearToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = nil
	exists, err := f.fs.Exists(ctx, f.location)
	if err != nil || !exists {
		return err
	}
	if err = f.fs.Delete(ctx, f.location); err != nil {
		return fmt.Errorf("failed to delete credential %v: %w", f.location, err)
	}
	return nil
}

func (f *FileStore) save(ctx context.Context, token *oauth2.Token) error {
	data, err := json.MarshalIndent(map[string]*oauth2.Token{CredentialKey: token}, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.location, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist credential %v: %w", f.location, err)
	}
	return nil
}

func (f *FileStore) load(ctx context.Context) error {
	exists, err := f.fs.Exists(ctx, f.location)
	if err != nil || !exists {
		return err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.location)
	if err != nil {
		return err
	}
	var snapshot map[string]*oauth2.Token
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	if token := snapshot[CredentialKey]; validate(token) == nil {
		f.token = token
	}
	return nil
}

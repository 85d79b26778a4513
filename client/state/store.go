package state

import (
	"errors"
	"sync"
)

// ErrNoProfile is returned when an operation needs a profile but none is loaded.
var ErrNoProfile = errors.New("no profile loaded")

// Snapshot is a consistent copy of the store content.
type Snapshot struct {
	Profile Profile
	Cart    Cart
	// Version increases with every applied mutation.
	Version uint64
}

// Store is the shared profile/cart cache.
type Store struct {
	mu      sync.RWMutex
	profile Profile
	cart    Cart
	version uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current profile and cart.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Profile: s.profile, Cart: s.cart.clone(), Version: s.version}
}

// ReplaceProfile replaces the whole profile.
func (s *Store) ReplaceProfile(profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	if profile.IsZero() {
		s.cart = Cart{}
	}
	s.version++
}

// PatchProfile updates name, phone and address of the loaded profile.
func (s *Store) PatchProfile(patch ProfilePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile.IsZero() {
		return ErrNoProfile
	}
	patch.Apply(&s.profile)
	s.version++
	return nil
}

// PatchAvatar updates the avatar URL of the loaded profile.
func (s *Store) PatchAvatar(URL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile.IsZero() {
		return ErrNoProfile
	}
	s.profile.Avatar = URL
	s.version++
	return nil
}

// ResetProfile clears the profile and, with it, the cart.
func (s *Store) ResetProfile() {
	s.Reset()
}

// ReplaceCart replaces the cart; a cart cannot exist without a profile.
func (s *Store) ReplaceCart(cart Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile.IsZero() && !cart.IsZero() {
		return ErrNoProfile
	}
	s.cart = cart.clone()
	s.version++
	return nil
}

// ResetCart empties the cart.
func (s *Store) ResetCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = Cart{}
	s.version++
}

// Replace sets profile and cart in one step.
func (s *Store) Replace(profile Profile, cart Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.IsZero() && !cart.IsZero() {
		return ErrNoProfile
	}
	s.profile = profile
	s.cart = cart.clone()
	s.version++
	return nil
}

// Reset clears profile and cart in one step.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = Profile{}
	s.cart = Cart{}
	s.version++
}

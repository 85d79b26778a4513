package session

import "github.com/viant/storefront/client/state"

// View is a consistent snapshot of the session.
type View struct {
	// Authenticated reports whether a credential is current.
	Authenticated bool
	// Synced reports whether Profile and Cart were fetched for the current session.
	Synced  bool
	Profile state.Profile
	Cart    state.Cart
}

// Role returns the signed-in user's role, or "" when no profile is loaded.
func (v View) Role() state.Role {
	return v.Profile.Role
}

// Ticket identifies the session an asynchronous operation started in. Results
// carried back with a stale ticket are dropped.
type Ticket struct {
	epoch uint64
}

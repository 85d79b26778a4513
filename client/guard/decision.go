package guard

import (
	"github.com/viant/storefront/client/session"
	"github.com/viant/storefront/client/state"
)

// Decision is the outcome of a route check.
type Decision int

const (
	// Pending means the session has a credential but its state is not loaded yet.
	Pending Decision = iota
	Authorized
	Denied
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Decide returns the decision for view on a route requiring role. An empty role
// admits any signed-in user.
func Decide(view session.View, required state.Role) Decision {
	switch {
	case !view.Authenticated:
		return Denied
	case !view.Synced:
		return Pending
	case !view.Profile.Role.Valid():
		return Denied
	case required == "":
		return Authorized
	case view.Profile.Role == required:
		return Authorized
	default:
		return Denied
	}
}

package client

import (
	"context"
	"io"

	"github.com/viant/storefront/client/api"
	"github.com/viant/storefront/client/guard"
	"github.com/viant/storefront/client/session"
	"github.com/viant/storefront/client/state"
)

// Interface defines the client interface for all exported methods
type Interface interface {
	// SignIn signs in and loads profile and cart
	SignIn(ctx context.Context, request *api.SignInRequest) (session.View, error)

	// SignUp registers an account
	SignUp(ctx context.Context, request *api.SignUpRequest) error

	// SignOut clears the session locally and on the server
	SignOut(ctx context.Context) error

	// ForgotPassword requests a reset link
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword sets a password with a reset token
	ResetPassword(ctx context.Context, token, password string) error

	// ChangePassword changes the password and signs out
	ChangePassword(ctx context.Context, request *api.ChangePasswordRequest) error

	// UpdateProfile saves a partial profile update
	UpdateProfile(ctx context.Context, patch *state.ProfilePatch) (session.View, error)

	// UpdateAvatar uploads a new avatar
	UpdateAvatar(ctx context.Context, filename string, content io.Reader) (session.View, error)

	// Sync reloads profile and cart
	Sync(ctx context.Context) error

	// View returns the current session
	View(ctx context.Context) session.View

	// Subscribe registers a session listener
	Subscribe(listener func(session.View)) (cancel func())

	// Check decides access to a route requiring role
	Check(ctx context.Context, role state.Role) guard.Decision
}

// Ensure Client implements Interface
var _ Interface = (*Client)(nil)

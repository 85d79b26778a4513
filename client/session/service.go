package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/api"
	"github.com/viant/storefront/client/state"
)

// Service implements the session call sites: sign-in, sign-out, password and
// profile changes.
type Service struct {
	client  *api.Client
	manager *Manager
	sync    *Synchronizer
	logger  logrus.FieldLogger
}

// NewService creates a service.
func NewService(client *api.Client, manager *Manager, synchronizer *Synchronizer, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{client: client, manager: manager, sync: synchronizer, logger: logger.WithField("component", "session")}
}

// Manager returns the session manager.
func (s *Service) Manager() *Manager {
	return s.manager
}

// Synchronizer returns the session synchronizer.
func (s *Service) Synchronizer() *Synchronizer {
	return s.sync
}

// SignIn authenticates, stores the credential and loads profile and cart. When
// loading fails the new session is dropped.
func (s *Service) SignIn(ctx context.Context, in *api.SignInRequest) (View, error) {
	token, err := s.client.SignIn(ctx, in)
	if err != nil {
		return View{}, err
	}
	if _, err = s.manager.Establish(ctx, token); err != nil {
		return View{}, fmt.Errorf("failed to store credential: %w", err)
	}
	if err = s.sync.Sync(ctx); err != nil {
		s.manager.Invalidate(ctx, token)
		return View{}, err
	}
	return s.manager.View(ctx), nil
}

// SignUp registers a new account; the user signs in separately.
func (s *Service) SignUp(ctx context.Context, in *api.SignUpRequest) error {
	return s.client.SignUp(ctx, in)
}

// SignOut invalidates the renewal credential on the server, then clears the local
// session. A server failure is logged; the local session is cleared regardless.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		s.logger.WithError(err).Warn("server sign-out failed")
	}
	return s.manager.Clear(ctx)
}

// ForgotPassword requests a password reset link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.client.ForgotPassword(ctx, email)
}

// ResetPassword sets a new password with a reset token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	return s.client.ResetPassword(ctx, token, password)
}

// ChangePassword changes the password and signs out, since the server revokes the
// session.
func (s *Service) ChangePassword(ctx context.Context, in *api.ChangePasswordRequest) error {
	if err := s.client.ChangePassword(ctx, in); err != nil {
		return err
	}
	return s.SignOut(ctx)
}

// UpdateProfile saves a partial profile update and applies it to the shared state.
func (s *Service) UpdateProfile(ctx context.Context, patch *state.ProfilePatch) (View, error) {
	_, ticket, ok := s.manager.Ticket(ctx)
	if !ok {
		return View{}, ErrSignedOut
	}
	if _, err := s.client.UpdateProfile(ctx, patch); err != nil {
		return View{}, err
	}
	if err := s.manager.PatchProfile(ctx, ticket, *patch); err != nil && !isDeferred(err) {
		return View{}, err
	}
	return s.manager.View(ctx), nil
}

// UpdateAvatar uploads an avatar and applies its URL to the shared state.
func (s *Service) UpdateAvatar(ctx context.Context, filename string, content io.Reader) (View, error) {
	_, ticket, ok := s.manager.Ticket(ctx)
	if !ok {
		return View{}, ErrSignedOut
	}
	URL, err := s.client.UpdateAvatar(ctx, filename, content)
	if err != nil {
		return View{}, err
	}
	if err = s.manager.PatchAvatar(ctx, ticket, URL); err != nil && !isDeferred(err) {
		return View{}, err
	}
	return s.manager.View(ctx), nil
}

// isDeferred reports a saved update the shared state cannot take yet; the next
// sync loads it.
func isDeferred(err error) bool {
	return errors.Is(err, ErrStaleSession) || errors.Is(err, state.ErrNoProfile)
}

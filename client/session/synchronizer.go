package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/state"
	"github.com/viant/storefront/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidProfile is returned when the server acknowledges a profile request
// without a usable profile.
var ErrInvalidProfile = errors.New("invalid profile")

// Fetcher loads the signed-in user's data through the authorized transport.
type Fetcher interface {
	Profile(ctx context.Context) (*state.Profile, error)
	Cart(ctx context.Context) (*state.Cart, error)
}

// Synchronizer keeps the shared state consistent with the current credential.
type Synchronizer struct {
	manager *Manager
	fetcher Fetcher
	logger  logrus.FieldLogger
}

// NewSynchronizer creates a synchronizer.
func NewSynchronizer(manager *Manager, fetcher Fetcher, logger logrus.FieldLogger) *Synchronizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Synchronizer{manager: manager, fetcher: fetcher, logger: logger.WithField("component", "sync")}
}

// Sync fetches profile and cart when a credential is present and publishes both.
// Without a credential it does nothing. On failure the prior state is left as is.
func (s *Synchronizer) Sync(ctx context.Context) error {
	_, ticket, ok := s.manager.Ticket(ctx)
	if !ok {
		return nil
	}
	var profile *state.Profile
	var cart *state.Cart
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		profile, err = s.fetcher.Profile(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		cart, err = s.fetcher.Cart(groupCtx)
		return err
	})
	err := group.Wait()
	if err == nil {
		err = validateProfile(profile)
	}
	if err == nil {
		err = s.manager.Publish(ctx, ticket, *profile, *cart)
	}
	if errors.Is(err, ErrStaleSession) {
		s.logger.Debug("dropped profile of a replaced session")
		return nil
	}
	metrics.ObserveSync(err)
	if err != nil {
		s.logger.WithError(err).Warn("failed to synchronize session")
		return err
	}
	return nil
}

func validateProfile(profile *state.Profile) error {
	switch {
	case profile == nil || profile.IsZero():
		return fmt.Errorf("%w: empty profile", ErrInvalidProfile)
	case !profile.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, profile.Role)
	}
	return nil
}

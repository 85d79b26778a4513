package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/auth/store"
	"github.com/viant/storefront/internal/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Refresher obtains a new access credential from the renewal credential.
type Refresher interface {
	Refresh(ctx context.Context) (*oauth2.Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (*oauth2.Token, error)

func (f RefresherFunc) Refresh(ctx context.Context) (*oauth2.Token, error) {
	return f(ctx)
}

// Invalidator is notified when a refresh fails or a replayed request is still
// rejected. Requests joining a failed refresh, or carrying a credential whose
// renewal was already refused, do not notify again.
// rejected is the credential the server refused, or nil when none was sent.
type Invalidator interface {
	Invalidate(ctx context.Context, rejected *oauth2.Token)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context, rejected *oauth2.Token)

func (f InvalidatorFunc) Invalidate(ctx context.Context, rejected *oauth2.Token) {
	f(ctx, rejected)
}

// Renewer commits a refreshed credential only while stale is still the stored one.
// It returns an error when the session was cleared or replaced in the meantime.
type Renewer interface {
	Renew(ctx context.Context, stale, fresh *oauth2.Token) error
}

// RenewerFunc adapts a function to Renewer.
type RenewerFunc func(ctx context.Context, stale, fresh *oauth2.Token) error

func (f RenewerFunc) Renew(ctx context.Context, stale, fresh *oauth2.Token) error {
	return f(ctx, stale, fresh)
}

type RoundTripper struct {
	store         store.Store
	refresher     Refresher
	invalidator   Invalidator
	renewer       Renewer
	transport     http.RoundTripper
	jar           http.CookieJar
	isAuthFailure func(resp *http.Response) bool
	logger        logrus.FieldLogger
	// refreshes collapses concurrent renewals; the in-flight call and its waiters
	// exist only while a refresh is running.
	refreshes singleflight.Group
	mux       sync.Mutex
	// failed is the access token whose renewal was refused; requests still carrying
	// it fail without another refresh.
	failed string
}

func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport:     http.DefaultTransport,
		store:         store.NewMemoryStore(),
		isAuthFailure: IsUnauthorized,
		logger:        logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.refresher == nil {
		return nil, errors.New("refresher was empty")
	}
	ret.transport = WrapWithCookieJar(ret.transport, ret.jar)
	return ret, nil
}

func (r *RoundTripper) Store() store.Store {
	return r.store
}

// Base returns the cookie-bearing transport without credential handling, for
// endpoints that do not require authorization.
func (r *RoundTripper) Base() http.RoundTripper {
	return r.transport
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	request, err := newReplayable(req)
	if err != nil {
		return nil, err
	}
	// 1) send with the current credential, if any
	token, _ := r.store.LookupToken(ctx)
	resp, err := r.transport.RoundTrip(request.next(token))
	if err != nil || !r.isAuthFailure(resp) {
		return resp, err
	}
	discard(resp)

	// 2) renew once, shared with every other failing request
	fresh, err := r.renew(ctx, token)
	if err != nil {
		return nil, err
	}

	// 3) replay exactly once
	resp, err = r.transport.RoundTrip(request.next(fresh))
	if err != nil {
		metrics.ObserveRetry(metrics.Failure)
		return nil, err
	}
	if r.isAuthFailure(resp) {
		discard(resp)
		metrics.ObserveRetry(metrics.Unauthorized)
		r.invalidate(ctx, fresh, metrics.ReasonRetryUnauthorized)
		return nil, fmt.Errorf("%w: %v %v rejected after refresh", ErrSessionInvalid, req.Method, req.URL.Path)
	}
	metrics.ObserveRetry(metrics.Success)
	return resp, nil
}

// renew returns a credential newer than stale, refreshing only if no other request
// has already done so.
func (r *RoundTripper) renew(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	if r.renewalRefused(stale) {
		return nil, fmt.Errorf("%w: renewal already refused", ErrSessionInvalid)
	}
	if current, ok := r.store.LookupToken(ctx); ok && !store.SameToken(current, stale) {
		return current, nil
	}
	// the refresh must outlive the request that started it: other waiters depend on it
	detached := context.WithoutCancel(ctx)
	result := r.refreshes.DoChan(refreshKey, func() (interface{}, error) {
		return r.refresh(detached, stale)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Token), nil
	}
}

func (r *RoundTripper) refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	// a refresh that completed between the caller's check and this flight wins
	if current, ok := r.store.LookupToken(ctx); ok && !store.SameToken(current, stale) {
		return current, nil
	}
	logger := r.logger.WithField("component", "transport")
	logger.Debug("refreshing access credential")
	token, err := r.refresher.Refresh(ctx)
	metrics.ObserveRefresh(err)
	if err == nil && r.renewer != nil {
		if err := r.renewer.Renew(ctx, stale, token); err != nil {
			// cleared or replaced while the refresh was in flight
			logger.WithError(err).Debug("dropped refreshed credential")
			return nil, fmt.Errorf("%w: %w", ErrSessionInvalid, err)
		}
		logger.Debug("access credential refreshed")
		return token, nil
	}
	if err == nil && stale != nil {
		if _, ok := r.store.LookupToken(ctx); !ok {
			logger.Debug("dropped credential refreshed after sign-out")
			return nil, fmt.Errorf("%w: signed out during refresh", ErrSessionInvalid)
		}
	}
	if err == nil {
		err = r.store.SetToken(ctx, token)
	}
	if err != nil {
		logger.WithError(err).Warn("access credential refresh failed")
		r.refuseRenewal(stale)
		r.invalidate(ctx, stale, metrics.ReasonRefreshFailed)
		return nil, fmt.Errorf("%w: %w", ErrSessionInvalid, err)
	}
	logger.Debug("access credential refreshed")
	return token, nil
}

func (r *RoundTripper) invalidate(ctx context.Context, rejected *oauth2.Token, reason string) {
	metrics.ObserveInvalidation(reason)
	r.logger.WithField("component", "transport").WithField("reason", reason).Info("session invalidated")
	if r.invalidator != nil {
		r.invalidator.Invalidate(ctx, rejected)
		return
	}
	if current, ok := r.store.LookupToken(ctx); ok && !store.SameToken(current, rejected) {
		return
	}
	if err := r.store.ClearToken(ctx); err != nil {
		r.logger.WithError(err).Warn("failed to clear credential")
	}
}

func (r *RoundTripper) renewalRefused(stale *oauth2.Token) bool {
	if stale == nil {
		return false
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.failed != "" && r.failed == stale.AccessToken
}

func (r *RoundTripper) refuseRenewal(stale *oauth2.Token) {
	if stale == nil {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.failed = stale.AccessToken
}

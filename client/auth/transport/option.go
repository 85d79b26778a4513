package transport

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/auth/store"
)

type Option func(*RoundTripper)

// WithStore sets credential store
func WithStore(store store.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithRefresher sets the component renewing the access credential
func WithRefresher(refresher Refresher) Option {
	return func(t *RoundTripper) {
		t.refresher = refresher
	}
}

// WithInvalidator sets the session invalidation hook
func WithInvalidator(invalidator Invalidator) Option {
	return func(t *RoundTripper) {
		t.invalidator = invalidator
	}
}

// WithRenewer makes refreshed credentials commit through renewer instead of a plain store write
func WithRenewer(renewer Renewer) Option {
	return func(t *RoundTripper) {
		t.renewer = renewer
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithCookieJar makes the underlying transport send and record cookies
func WithCookieJar(jar http.CookieJar) Option {
	return func(t *RoundTripper) {
		t.jar = jar
	}
}

// WithAuthorizationFailure overrides the predicate detecting a rejected credential
func WithAuthorizationFailure(fn func(resp *http.Response) bool) Option {
	return func(t *RoundTripper) {
		t.isAuthFailure = fn
	}
}

// WithLogger sets logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *RoundTripper) {
		t.logger = logger
	}
}

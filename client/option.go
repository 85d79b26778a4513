package client

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/auth/store"
	"github.com/viant/storefront/client/guard"
)

// Option represents option
type Option func(c *Client)

// WithStore sets the credential store
func WithStore(credentials store.Store) Option {
	return func(c *Client) {
		c.credentials = credentials
	}
}

// WithCookieJar sets the jar keeping the renewal cookie
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithHTTPTransport sets the underlying HTTP transport
func WithHTTPTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpTransport = transport
	}
}

// WithTimeout sets the per request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithGuardOptions sets route guard options
func WithGuardOptions(options ...guard.Option) Option {
	return func(c *Client) {
		c.guardOptions = append(c.guardOptions, options...)
	}
}

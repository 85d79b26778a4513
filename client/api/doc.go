// Package api is the typed client of the storefront HTTP API used by the session
// core: sign-in, sign-up, sign-out, credential refresh, password recovery, profile
// and cart.
//
// Public endpoints go through the cookie-bearing base client; endpoints requiring
// authorization go through the authorized transport, which attaches and renews the
// access credential. Request types validate their input locally before any I/O.
package api

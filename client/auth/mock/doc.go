// Package mock provides an in-memory storefront API that facilitates testing of
// the client-side session flow.
//
// The service implements the authentication, profile and cart endpoints, issues
// short lived access tokens and keeps the renewal token in an HttpOnly cookie.
// Controls such as ExpireAccessTokens, SetRefreshDelay and FailRefresh let tests
// drive the refresh paths without real network failures.
package mock

// Package guard decides whether the current viewer may enter a protected route.
//
// The decision is computed before the protected handler runs: Authorized calls
// the handler, Denied redirects to the sign-in page and Pending answers without
// touching the handler until the session is synchronized.
package guard

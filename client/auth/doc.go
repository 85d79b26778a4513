// Package auth groups the client side credential handling of the storefront.
//
// Sub-packages:
//   - store: where the access credential lives (memory, file via afs, Redis).
//   - transport: an http.RoundTripper attaching the credential and renewing it
//     once, shared by every request rejected while a refresh is in flight.
//   - mock: an in-memory storefront API for tests and demos.
package auth

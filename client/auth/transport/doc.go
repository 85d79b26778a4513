// Package transport implements the authorized transport: an http.RoundTripper that
// attaches the current access credential to every request and recovers from an
// expired credential exactly once per request.
//
// When the server rejects a request with an authorization failure, the RoundTripper
// renews the credential through a Refresher (the refresh endpoint, authenticated by
// the renewal cookie carried by the cookie-bearing channel) and replays the request
// once. Concurrent failures share a single in-flight refresh. When the credential
// cannot be renewed, or the replay is rejected again, the request fails with
// ErrSessionInvalid and the configured Invalidator is notified.
package transport

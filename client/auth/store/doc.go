// Package store defines the credential store: the single holder of the current
// access credential used by the authorized transport.
//
// Three implementations are provided: an in-memory store for tests and short-lived
// processes, a file store that persists the credential as JSON under a fixed key
// (surviving process restarts the same way browser local storage survives page
// reloads) and a Redis store for server-rendered storefronts that keep one
// credential per browsing session.
package store

// Package cli implements the storefront command line: sign-in, sign-out, profile,
// cart and password commands over a session persisted between runs, plus a demo
// API server.
package cli

// Package session ties the credential store and the shared state store into one
// session.
//
// Manager serializes every transition that touches both stores, so readers never
// observe a credential without its state or state left behind after sign-out.
// Synchronizer refreshes profile and cart from the API, and Service implements the
// sign-in, sign-out and profile call sites on top of them.
package session

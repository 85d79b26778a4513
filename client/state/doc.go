// Package state holds the process-wide storefront cache: the signed-in user's
// profile and cart.
//
// The Store is an explicit, injectable container. It is mutated only through its
// operation set (replace, patch, reset) and read through Snapshot, so every UI
// surface observes a consistent profile/cart pair.
package state

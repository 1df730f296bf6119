// Package state implements the client-owned interaction state: the single
// visible notification and the optimistic mutation engine.
//
// The engine makes a local collection reflect a user's intent before the
// network confirms it, generically across likes, ratings, wishlist membership
// and follow edges. A mutation is applied synchronously against the latest
// locally-applied value, snapshotted for rollback, then resolved when the
// remote call returns: confirmed (optionally replaced with server-canonical
// data) on success, reverted on failure. Mutations on the same subject are
// serialized in submission order; their remote calls never overlap.
//
// All methods are intended to run on the application's single logical thread
// (the bubbletea update loop); nothing here locks.
package state

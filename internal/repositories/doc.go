// package repositories provides the sqlite persistence layer.
//
// The client persists two things: the active session, so a restart can
// resume it, and a cache of the user's wishlist for offline listing.
package repositories

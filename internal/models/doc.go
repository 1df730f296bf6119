// Package models defines the data model for the BookMind client.
//
// The package contains two categories of types:
//
// 1. Server-owned data fetched from the BookMind API:
//   - [Book] : Catalog entries returned by search, recommendations and detail fetches
//   - [Rating] : A user's scored review of a book, with its like set
//   - [UserProfile] / [UserSummary] : Other users as seen by the client
//   - [WishlistItem] : Reading-list membership entries
//
// 2. Client-owned state:
//   - [Session] : The authenticated identity plus its lifecycle metadata. Exactly one
//     Session is active per process; it is created by login, persisted locally so a
//     restart can restore it, and destroyed by logout, idle timeout or shutdown.
//   - [Notification] : The transient message surface; one visible at a time,
//     self-destructing when its deadline passes.
//   - [LikeState], [RatingState], [WishlistState], [FollowState] : per-subject local
//     interaction values that the optimistic mutation engine applies and reconciles.
package models

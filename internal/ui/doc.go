// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the app's six views, gated on authentication:
//  1. [router.AuthView] : Log in or create an account
//  2. [router.HomeView] : Search the catalog and browse recommendations
//  3. [router.ProfileView] : Own ratings, wishlist and follow counts
//  4. [router.CommunityView] : Recent ratings from everyone, with likes
//  5. [router.PublicProfileView] : Another reader's profile and ratings
//  6. [router.BookDetailView] : One book with reviews, rating form and wishlist
//
// The [Model] implements bubbletea's standard Init/Update/View pattern. All
// interaction state lives in the controllers from internal/interactions;
// Update stages changes synchronously so the optimistic value renders on the
// very next frame, then issues the remote call as a command and reconciles on
// its resolved message. A half-second tick drives idle logout and
// notification expiry.
package ui

// package interactions holds the controllers for user actions on books,
// reviews and people: ratings, likes, wishlist membership and follows.
//
// Each controller owns a [state.Engine] for its value type and shares one
// [state.Notifier]. Controllers stage changes synchronously and hand the
// remote call back to the caller, which issues it and feeds the outcome to
// the controller's Resolve method. That split keeps all state transitions on
// the caller's loop while network waits happen elsewhere.
package interactions

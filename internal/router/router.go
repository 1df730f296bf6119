// Package router implements the finite-state view navigator. It maps a
// requested destination plus session validity to the single active view,
// carrying the minimal parameters each view needs to render.
package router

import (
	"github.com/desertthunder/bookmind/internal/models"
)

// View enumerates the application's views.
type View int

const (
	AuthView View = iota
	HomeView
	ProfileView
	CommunityView
	PublicProfileView
	BookDetailView
)

func (v View) String() string {
	switch v {
	case AuthView:
		return "auth"
	case HomeView:
		return "home"
	case ProfileView:
		return "profile"
	case CommunityView:
		return "community"
	case PublicProfileView:
		return "public_profile"
	case BookDetailView:
		return "book_detail"
	default:
		return "unknown"
	}
}

// Params carries the per-view parameters of the navigation state.
type Params struct {
	TargetUserID string
	ActiveBookID string
}

// SessionSource reports the active session, nil when anonymous. Satisfied by
// the session store.
type SessionSource interface {
	Current() *models.Session
}

// Router owns the navigation state. Exactly one view is active at any time;
// reaching any view other than auth requires a session.
type Router struct {
	sessions SessionSource
	active   View
	params   Params
}

// New creates a router in the auth view.
func New(sessions SessionSource) *Router {
	return &Router{sessions: sessions, active: AuthView}
}

// Active returns the active view.
func (r *Router) Active() View { return r.active }

// Params returns the active view's parameters.
func (r *Router) Params() Params { return r.params }

// Navigate switches to the requested view. When the destination requires a
// session and none exists the router stays where it is. Returns whether the
// navigation happened.
func (r *Router) Navigate(view View, params Params) bool {
	if view != AuthView && r.sessions.Current() == nil {
		return false
	}

	r.active = view
	r.params = params
	return true
}

// NavigateToUser resolves a user id to the profile view for the current user
// or the public profile view for anyone else. Self-profile exposes edit and
// delete affordances that other profiles must not.
func (r *Router) NavigateToUser(userID string) bool {
	session := r.sessions.Current()
	if session == nil {
		return false
	}

	if userID == session.UserID {
		return r.Navigate(ProfileView, Params{})
	}
	return r.Navigate(PublicProfileView, Params{TargetUserID: userID})
}

// NavigateToBook opens the book detail view for a book.
func (r *Router) NavigateToBook(bookID string) bool {
	return r.Navigate(BookDetailView, Params{ActiveBookID: bookID})
}

// Reset returns to the auth view, used after logout or idle timeout.
func (r *Router) Reset() {
	r.active = AuthView
	r.params = Params{}
}

// IsActiveBook reports whether bookID is the subject of the active view.
// Responses for any other book are stale and must be discarded.
func (r *Router) IsActiveBook(bookID string) bool {
	return r.active == BookDetailView && r.params.ActiveBookID == bookID
}

// IsActiveUser reports whether userID is the subject of the active public
// profile view.
func (r *Router) IsActiveUser(userID string) bool {
	return r.active == PublicProfileView && r.params.TargetUserID == userID
}

// package models defines the data model for the BookMind client
package models

import (
	"time"
)

// Session represents the authenticated identity and its lifecycle metadata.
type Session struct {
	UserID         string    `json:"uid"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Token          string    `json:"token"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	LastActivityAt time.Time `json:"-"`
}

// UserProfile represents a user profile fetched from the API, used for both
// the current user and others.
type UserProfile struct {
	UserID         string `json:"uid"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
}

// UserSummary represents a user search result.
type UserSummary struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
}

// Book represents a catalog entry.
type Book struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher,omitempty"`
	Year      int    `json:"year,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Rating represents a user's scored review of a book, as returned by the API
// for profile listings, book reviews and the community feed.
type Rating struct {
	ID          string    `json:"id"`
	BookID      string    `json:"book_id"`
	BookTitle   string    `json:"book_title"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"rating"`
	Review      string    `json:"review"`
	ImageURL    string    `json:"image_url,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	LikedBy     []string  `json:"liked_by"`
}

// LikedByUser reports whether userID is in the rating's like set.
func (r Rating) LikedByUser(userID string) bool {
	for _, id := range r.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// WishlistItem represents a reading-list entry.
type WishlistItem struct {
	BookID   string `json:"book_id"`
	Title    string `json:"book_title"`
	ImageURL string `json:"image_url"`
}

// NotificationKind classifies a [Notification].
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
	NotifyWarning
)

func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	case NotifyWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Notification is a transient user-facing message. Exactly one is visible at a
// time; it self-destructs once ExpiresAt passes.
type Notification struct {
	Message   string
	Kind      NotificationKind
	ExpiresAt time.Time
}

// Expired reports whether the notification should no longer be shown.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// LikeState is the local interaction value for a review's like toggle.
type LikeState struct {
	Liked bool
	Count int
}

// RatingState is the local interaction value for the current user's rating of
// a book. A zero Score means no rating exists.
type RatingState struct {
	Score  int
	Review string
}

// Exists reports whether a rating is present.
func (s RatingState) Exists() bool { return s.Score > 0 }

// WishlistState is the local interaction value for reading-list membership.
type WishlistState struct {
	In bool
}

// FollowState is the local interaction value for a follow edge.
type FollowState struct {
	Following bool
}

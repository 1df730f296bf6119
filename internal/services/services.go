// package services defines interface Service for interacting with the BookMind HTTP API
package services

import (
	"context"

	"github.com/desertthunder/bookmind/internal/models"
)

// RatingSubmission contains the fields of the idempotent "upsert rating" call.
// The same call serves both create and update.
type RatingSubmission struct {
	BookID      string
	UserID      string
	Score       int
	Review      string
	BookTitle   string
	DisplayName string
}

// WishlistToggle contains the fields of the wishlist toggle call. Title and
// image URL ride along so the server can store a denormalized entry.
type WishlistToggle struct {
	BookID   string
	UserID   string
	Title    string
	ImageURL string
}

// Service defines the contract of the remote BookMind API.
//
// Every method suspends only at the network boundary and honors ctx
// cancellation. Implementations never mutate client-side state.
type Service interface {
	// Login exchanges credentials for an authenticated session.
	// Registration never yields a session; only Login does.
	Login(ctx context.Context, email, password string) (*models.Session, error)

	// Register creates a new account. The caller is expected to log in afterwards.
	Register(ctx context.Context, email, password, displayName string) error

	// UserProfile fetches a profile by id, used for self and others.
	UserProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// SearchUsers finds users by username fragment. An empty query yields no call.
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)

	// SearchBooks queries the catalog. An empty query yields no call.
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)

	// BookDetails fetches a single catalog entry.
	BookDetails(ctx context.Context, bookID string) (*models.Book, error)

	// BookReviews lists all ratings for a book, including like sets.
	BookReviews(ctx context.Context, bookID string) ([]models.Rating, error)

	// SimilarBooks lists catalog entries related to a book.
	SimilarBooks(ctx context.Context, bookID string) ([]models.Book, error)

	// SubmitRating upserts the user's rating for a book.
	SubmitRating(ctx context.Context, sub RatingSubmission) error

	// DeleteRating removes the user's rating for a book. Idempotent.
	DeleteRating(ctx context.Context, bookID, userID string) error

	// UserRatings lists a user's ratings, most recent first.
	UserRatings(ctx context.Context, userID string) ([]models.Rating, error)

	// Recommendations fetches the recommendation list for a user. The server
	// recomputes it after rating changes.
	Recommendations(ctx context.Context, userID string) ([]models.Book, error)

	// ToggleLike flips the user's like on a review. Idempotent toggle.
	ToggleLike(ctx context.Context, ratingID, userID string) error

	// ToggleWishlist flips reading-list membership and reports the resulting
	// state: true when the book was added, false when removed.
	ToggleWishlist(ctx context.Context, t WishlistToggle) (bool, error)

	// WishlistStatus checks reading-list membership.
	WishlistStatus(ctx context.Context, bookID, userID string) (bool, error)

	// UserWishlist lists a user's reading list.
	UserWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error)

	// Follow creates a follow edge from follower to following.
	Follow(ctx context.Context, followerID, followingID string) error

	// Unfollow removes a follow edge.
	Unfollow(ctx context.Context, followerID, followingID string) error

	// IsFollowing checks whether a follow edge exists.
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)

	// RecentRatings fetches the community feed of recent ratings with like sets.
	RecentRatings(ctx context.Context) ([]models.Rating, error)

	// Name returns the service name for logging.
	Name() string
}

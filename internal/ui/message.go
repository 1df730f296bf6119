package ui

import (
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/state"
)

// tickMsg drives idle logout and notification expiry.
type tickMsg time.Time

type loggedInMsg struct {
	session *models.Session
	err     error
}

type registeredMsg struct {
	email string
	err   error
}

type homeLoadedMsg struct {
	recs    []models.Book
	ratings []models.Rating
	err     error
}

type recsLoadedMsg struct {
	recs []models.Book
	err  error
}

type bookSearchMsg struct {
	query string
	books []models.Book
	err   error
}

type userSearchMsg struct {
	query string
	users []models.UserSummary
	err   error
}

// bookLoadedMsg carries everything the book detail view shows. The bookID is
// checked against the router on arrival; results for a book the user already
// left are dropped.
type bookLoadedMsg struct {
	bookID     string
	book       *models.Book
	reviews    []models.Rating
	similar    []models.Book
	inWishlist bool
	err        error
}

type feedLoadedMsg struct {
	ratings []models.Rating
	err     error
}

// profileLoadedMsg serves both the own-profile and public-profile views.
type profileLoadedMsg struct {
	userID    string
	profile   *models.UserProfile
	ratings   []models.Rating
	wishlist  []models.WishlistItem
	following bool
	err       error
}

type ratingResolvedMsg struct {
	bookID string
	op     state.Op
	err    error
}

type likeResolvedMsg struct {
	ratingID string
	err      error
}

type wishlistResolvedMsg struct {
	toggle    services.WishlistToggle
	value     models.WishlistState
	canonical bool
	err       error
}

type followResolvedMsg struct {
	targetID    string
	displayName string
	err         error
}

// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
)

// MockService is a configurable test double for [services.Service]. Each
// operation delegates to the corresponding function field when set and
// returns zero values otherwise. Calls counts every operation by name.
type MockService struct {
	Calls map[string]int

	LoginFunc           func(ctx context.Context, email, password string) (*models.Session, error)
	RegisterFunc        func(ctx context.Context, email, password, displayName string) error
	UserProfileFunc     func(ctx context.Context, userID string) (*models.UserProfile, error)
	SearchUsersFunc     func(ctx context.Context, query string) ([]models.UserSummary, error)
	SearchBooksFunc     func(ctx context.Context, query string) ([]models.Book, error)
	BookDetailsFunc     func(ctx context.Context, bookID string) (*models.Book, error)
	BookReviewsFunc     func(ctx context.Context, bookID string) ([]models.Rating, error)
	SimilarBooksFunc    func(ctx context.Context, bookID string) ([]models.Book, error)
	SubmitRatingFunc    func(ctx context.Context, sub services.RatingSubmission) error
	DeleteRatingFunc    func(ctx context.Context, bookID, userID string) error
	UserRatingsFunc     func(ctx context.Context, userID string) ([]models.Rating, error)
	RecommendationsFunc func(ctx context.Context, userID string) ([]models.Book, error)
	ToggleLikeFunc      func(ctx context.Context, ratingID, userID string) error
	ToggleWishlistFunc  func(ctx context.Context, t services.WishlistToggle) (bool, error)
	WishlistStatusFunc  func(ctx context.Context, bookID, userID string) (bool, error)
	UserWishlistFunc    func(ctx context.Context, userID string) ([]models.WishlistItem, error)
	FollowFunc          func(ctx context.Context, followerID, followingID string) error
	UnfollowFunc        func(ctx context.Context, followerID, followingID string) error
	IsFollowingFunc     func(ctx context.Context, followerID, followingID string) (bool, error)
	RecentRatingsFunc   func(ctx context.Context) ([]models.Rating, error)
}

var _ services.Service = (*MockService)(nil)

func (m *MockService) record(op string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[op]++
}

func (m *MockService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &models.Session{}, nil
}

func (m *MockService) Register(ctx context.Context, email, password, displayName string) error {
	m.record("Register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, displayName)
	}
	return nil
}

func (m *MockService) UserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	m.record("UserProfile")
	if m.UserProfileFunc != nil {
		return m.UserProfileFunc(ctx, userID)
	}
	return &models.UserProfile{UserID: userID}, nil
}

func (m *MockService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	m.record("SearchUsers")
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	m.record("SearchBooks")
	if m.SearchBooksFunc != nil {
		return m.SearchBooksFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockService) BookDetails(ctx context.Context, bookID string) (*models.Book, error) {
	m.record("BookDetails")
	if m.BookDetailsFunc != nil {
		return m.BookDetailsFunc(ctx, bookID)
	}
	return &models.Book{BookID: bookID}, nil
}

func (m *MockService) BookReviews(ctx context.Context, bookID string) ([]models.Rating, error) {
	m.record("BookReviews")
	if m.BookReviewsFunc != nil {
		return m.BookReviewsFunc(ctx, bookID)
	}
	return nil, nil
}

func (m *MockService) SimilarBooks(ctx context.Context, bookID string) ([]models.Book, error) {
	m.record("SimilarBooks")
	if m.SimilarBooksFunc != nil {
		return m.SimilarBooksFunc(ctx, bookID)
	}
	return nil, nil
}

func (m *MockService) SubmitRating(ctx context.Context, sub services.RatingSubmission) error {
	m.record("SubmitRating")
	if m.SubmitRatingFunc != nil {
		return m.SubmitRatingFunc(ctx, sub)
	}
	return nil
}

func (m *MockService) DeleteRating(ctx context.Context, bookID, userID string) error {
	m.record("DeleteRating")
	if m.DeleteRatingFunc != nil {
		return m.DeleteRatingFunc(ctx, bookID, userID)
	}
	return nil
}

func (m *MockService) UserRatings(ctx context.Context, userID string) ([]models.Rating, error) {
	m.record("UserRatings")
	if m.UserRatingsFunc != nil {
		return m.UserRatingsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockService) Recommendations(ctx context.Context, userID string) ([]models.Book, error) {
	m.record("Recommendations")
	if m.RecommendationsFunc != nil {
		return m.RecommendationsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockService) ToggleLike(ctx context.Context, ratingID, userID string) error {
	m.record("ToggleLike")
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, ratingID, userID)
	}
	return nil
}

func (m *MockService) ToggleWishlist(ctx context.Context, t services.WishlistToggle) (bool, error) {
	m.record("ToggleWishlist")
	if m.ToggleWishlistFunc != nil {
		return m.ToggleWishlistFunc(ctx, t)
	}
	return true, nil
}

func (m *MockService) WishlistStatus(ctx context.Context, bookID, userID string) (bool, error) {
	m.record("WishlistStatus")
	if m.WishlistStatusFunc != nil {
		return m.WishlistStatusFunc(ctx, bookID, userID)
	}
	return false, nil
}

func (m *MockService) UserWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	m.record("UserWishlist")
	if m.UserWishlistFunc != nil {
		return m.UserWishlistFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockService) Follow(ctx context.Context, followerID, followingID string) error {
	m.record("Follow")
	if m.FollowFunc != nil {
		return m.FollowFunc(ctx, followerID, followingID)
	}
	return nil
}

func (m *MockService) Unfollow(ctx context.Context, followerID, followingID string) error {
	m.record("Unfollow")
	if m.UnfollowFunc != nil {
		return m.UnfollowFunc(ctx, followerID, followingID)
	}
	return nil
}

func (m *MockService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	m.record("IsFollowing")
	if m.IsFollowingFunc != nil {
		return m.IsFollowingFunc(ctx, followerID, followingID)
	}
	return false, nil
}

func (m *MockService) RecentRatings(ctx context.Context) ([]models.Rating, error) {
	m.record("RecentRatings")
	if m.RecentRatingsFunc != nil {
		return m.RecentRatingsFunc(ctx)
	}
	return nil, nil
}

func (m *MockService) Name() string { return "mock" }

// MemoryRepository is an in-memory session.Repository double.
type MemoryRepository struct {
	Session   *models.Session
	SaveErr   error
	LoadErr   error
	ClearErr  error
	SaveCount int
}

func (r *MemoryRepository) Save(session *models.Session) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	copied := *session
	r.Session = &copied
	r.SaveCount++
	return nil
}

func (r *MemoryRepository) Load() (*models.Session, error) {
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	if r.Session == nil {
		return nil, nil
	}
	copied := *r.Session
	return &copied, nil
}

func (r *MemoryRepository) Clear() error {
	if r.ClearErr != nil {
		return r.ClearErr
	}
	r.Session = nil
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

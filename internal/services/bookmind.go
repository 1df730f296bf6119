// BookMind API implementation of [Service]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://localhost:5000/api"

// BookMindService implements [Service] over HTTP+JSON.
type BookMindService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// BookMindOpts contains configuration options for creating a [BookMindService].
type BookMindOpts struct {
	BaseURL        string
	HTTPClient     *http.Client
	Timeout        time.Duration
	RequestsPerSec float64
}

// NewBookMindService creates a new BookMind API client.
func NewBookMindService(opts BookMindOpts) *BookMindService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}

	return &BookMindService{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
	}
}

func (s *BookMindService) Name() string { return "BookMind" }

// SetToken installs a bearer token, used when restoring a persisted session.
func (s *BookMindService) SetToken(token string) { s.token = token }

// apiError is the error envelope the API returns on non-2xx responses.
type apiError struct {
	Error string `json:"error"`
}

// doRequest performs a rate-limited HTTP request against the API and decodes a
// JSON response into result when result is non-nil.
func (s *BookMindService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	apiURL := s.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps non-2xx responses onto the shared error taxonomy, carrying
// the server's error message when one was provided.
func (s *BookMindService) statusError(resp *http.Response) error {
	var envelope apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &envelope)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = shared.ErrAuthFailed
	case http.StatusNotFound:
		sentinel = shared.ErrBookNotFound
	case http.StatusBadRequest:
		sentinel = shared.ErrAPIRequest
	default:
		sentinel = shared.ErrAPIRequest
	}

	if envelope.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, envelope.Error)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}

// Login exchanges credentials for a session token.
func (s *BookMindService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session models.Session
	if err := s.doRequest(ctx, http.MethodPost, "/auth/login", body, &session); err != nil {
		return nil, err
	}

	if session.Email == "" {
		session.Email = email
	}
	s.token = session.Token
	return &session, nil
}

// Register creates a new account. Never yields a session.
func (s *BookMindService) Register(ctx context.Context, email, password, displayName string) error {
	body := map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	}

	err := s.doRequest(ctx, http.MethodPost, "/auth/register", body, nil)
	if err != nil && errors.Is(err, shared.ErrAPIRequest) {
		// The API reports duplicate registration as a 400.
		return fmt.Errorf("%w: %v", shared.ErrDuplicateUser, err)
	}
	return err
}

// UserProfile retrieves a user's profile by ID.
func (s *BookMindService) UserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	endpoint := fmt.Sprintf("/auth/user/%s", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SearchUsers finds users by username fragment.
func (s *BookMindService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	if query == "" {
		return nil, nil
	}

	var users []models.UserSummary
	endpoint := fmt.Sprintf("/auth/search?query=%s", url.QueryEscape(query))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchBooks queries the catalog.
func (s *BookMindService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	if query == "" {
		return nil, nil
	}

	var books []models.Book
	endpoint := fmt.Sprintf("/books/search?query=%s", url.QueryEscape(query))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookDetails retrieves a single catalog entry.
func (s *BookMindService) BookDetails(ctx context.Context, bookID string) (*models.Book, error) {
	var book models.Book
	endpoint := fmt.Sprintf("/books/%s/details", url.PathEscape(bookID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// BookReviews lists all ratings for a book.
func (s *BookMindService) BookReviews(ctx context.Context, bookID string) ([]models.Rating, error) {
	var reviews []models.Rating
	endpoint := fmt.Sprintf("/books/%s/reviews", url.PathEscape(bookID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// SimilarBooks lists catalog entries related to a book.
func (s *BookMindService) SimilarBooks(ctx context.Context, bookID string) ([]models.Book, error) {
	var books []models.Book
	endpoint := fmt.Sprintf("/books/%s/similar", url.PathEscape(bookID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SubmitRating upserts the user's rating for a book.
func (s *BookMindService) SubmitRating(ctx context.Context, sub RatingSubmission) error {
	body := map[string]any{
		"user_id":      sub.UserID,
		"rating":       sub.Score,
		"review":       sub.Review,
		"book_title":   sub.BookTitle,
		"display_name": sub.DisplayName,
	}

	endpoint := fmt.Sprintf("/books/%s/rate", url.PathEscape(sub.BookID))
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// DeleteRating removes the user's rating for a book.
func (s *BookMindService) DeleteRating(ctx context.Context, bookID, userID string) error {
	endpoint := fmt.Sprintf("/books/%s/rate?user_id=%s", url.PathEscape(bookID), url.QueryEscape(userID))
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// UserRatings lists a user's ratings.
func (s *BookMindService) UserRatings(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	endpoint := fmt.Sprintf("/books/users/%s/ratings", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Recommendations fetches the recommendation list for a user.
func (s *BookMindService) Recommendations(ctx context.Context, userID string) ([]models.Book, error) {
	var books []models.Book
	endpoint := fmt.Sprintf("/books/users/%s/recommendations", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ToggleLike flips the user's like on a review.
func (s *BookMindService) ToggleLike(ctx context.Context, ratingID, userID string) error {
	body := map[string]string{"user_id": userID}
	endpoint := fmt.Sprintf("/books/ratings/%s/like", url.PathEscape(ratingID))
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// ToggleWishlist flips reading-list membership. Returns true when the book was
// added, false when removed.
func (s *BookMindService) ToggleWishlist(ctx context.Context, t WishlistToggle) (bool, error) {
	body := map[string]string{
		"user_id":    t.UserID,
		"book_title": t.Title,
		"image_url":  t.ImageURL,
	}

	var result struct {
		Status string `json:"status"`
	}

	endpoint := fmt.Sprintf("/books/%s/wishlist/toggle", url.PathEscape(t.BookID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return false, err
	}

	switch result.Status {
	case "added":
		return true, nil
	case "removed":
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected wishlist status %q", shared.ErrAPIRequest, result.Status)
	}
}

// WishlistStatus checks reading-list membership.
func (s *BookMindService) WishlistStatus(ctx context.Context, bookID, userID string) (bool, error) {
	var result struct {
		InWishlist bool `json:"in_wishlist"`
	}

	endpoint := fmt.Sprintf("/books/%s/wishlist/check?user_id=%s", url.PathEscape(bookID), url.QueryEscape(userID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return false, err
	}
	return result.InWishlist, nil
}

// UserWishlist lists a user's reading list.
func (s *BookMindService) UserWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	endpoint := fmt.Sprintf("/books/users/%s/wishlist", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Follow creates a follow edge.
func (s *BookMindService) Follow(ctx context.Context, followerID, followingID string) error {
	body := map[string]string{"follower_id": followerID, "following_id": followingID}
	return s.doRequest(ctx, http.MethodPost, "/auth/follow", body, nil)
}

// Unfollow removes a follow edge.
func (s *BookMindService) Unfollow(ctx context.Context, followerID, followingID string) error {
	body := map[string]string{"follower_id": followerID, "following_id": followingID}
	return s.doRequest(ctx, http.MethodPost, "/auth/unfollow", body, nil)
}

// IsFollowing checks whether a follow edge exists.
func (s *BookMindService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var result struct {
		IsFollowing bool `json:"is_following"`
	}

	endpoint := fmt.Sprintf("/auth/is_following?follower_id=%s&following_id=%s",
		url.QueryEscape(followerID), url.QueryEscape(followingID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return false, err
	}
	return result.IsFollowing, nil
}

// RecentRatings fetches the community feed.
func (s *BookMindService) RecentRatings(ctx context.Context) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := s.doRequest(ctx, http.MethodGet, "/books/ratings/recent", nil, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

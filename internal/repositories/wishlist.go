package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/shared"
)

// WishlistCacheRepository caches wishlist entries per user so the list can be
// shown without a round trip. The server remains the source of truth; the
// cache is replaced wholesale on refresh and patched on toggles.
type WishlistCacheRepository struct {
	db *sql.DB
}

// NewWishlistCacheRepository creates a new [WishlistCacheRepository] with the given database connection
func NewWishlistCacheRepository(db *sql.DB) *WishlistCacheRepository {
	return &WishlistCacheRepository{db: db}
}

// Add inserts a cached wishlist entry. Replaces any existing entry for the
// same book and user.
func (r *WishlistCacheRepository) Add(userID string, item *models.WishlistItem) error {
	query := `
		INSERT INTO wishlist_cache (id, book_id, user_id, title, image_url, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (book_id, user_id) DO UPDATE SET
			title = excluded.title,
			image_url = excluded.image_url,
			cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query, shared.GenerateID(), item.BookID, userID, item.Title, item.ImageURL,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to cache wishlist entry: %w", err)
	}

	return nil
}

// Remove deletes the cached entry for a book. A no-op when absent.
func (r *WishlistCacheRepository) Remove(userID, bookID string) error {
	_, err := r.db.Exec("DELETE FROM wishlist_cache WHERE user_id = ? AND book_id = ?", userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}

// Replace swaps the user's cached wishlist for the given items atomically.
func (r *WishlistCacheRepository) Replace(userID string, items []*models.WishlistItem) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM wishlist_cache WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear wishlist cache: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, item := range items {
		_, err := tx.Exec(
			"INSERT INTO wishlist_cache (id, book_id, user_id, title, image_url, cached_at) VALUES (?, ?, ?, ?, ?, ?)",
			shared.GenerateID(), item.BookID, userID, item.Title, item.ImageURL, now)
		if err != nil {
			return fmt.Errorf("failed to insert wishlist entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wishlist cache: %w", err)
	}

	return nil
}

// List returns the user's cached wishlist entries, most recently cached first.
func (r *WishlistCacheRepository) List(userID string) ([]*models.WishlistItem, error) {
	query := `
		SELECT book_id, title, image_url
		FROM wishlist_cache
		WHERE user_id = ?
		ORDER BY cached_at DESC, title ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist cache: %w", err)
	}
	defer rows.Close()

	var items []*models.WishlistItem
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.BookID, &item.Title, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// Contains reports whether a book is in the user's cached wishlist.
func (r *WishlistCacheRepository) Contains(userID, bookID string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM wishlist_cache WHERE user_id = ? AND book_id = ?",
		userID, bookID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist cache: %w", err)
	}
	return count > 0, nil
}

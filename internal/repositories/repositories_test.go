package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// In-memory sqlite scopes the schema to a single connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSessionRepository(t *testing.T) {
	session := &models.Session{
		UserID:         "user-42",
		Username:       "reader",
		Email:          "reader@example.com",
		DisplayName:    "Reader",
		Token:          "tok",
		FollowersCount: 2,
		FollowingCount: 5,
		LastActivityAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Load Returns Nil When Empty", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("Save And Load Round Trip", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save(session); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a session")
		}
		if got.UserID != session.UserID || got.Token != session.Token {
			t.Errorf("expected %s/%s, got %s/%s", session.UserID, session.Token, got.UserID, got.Token)
		}
		if !got.LastActivityAt.Equal(session.LastActivityAt) {
			t.Errorf("expected last activity %v, got %v", session.LastActivityAt, got.LastActivityAt)
		}
	})

	t.Run("Save Overwrites Previous Session", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save(session); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		next := *session
		next.UserID = "user-7"
		next.Username = "other"
		if err := repo.Save(&next); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.UserID != "user-7" {
			t.Errorf("expected the replacement session, got user %s", got.UserID)
		}

		var count int
		if err := repo.db.QueryRow("SELECT COUNT(*) FROM session").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single session row, got %d", count)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(newTestDB(t))

		if err := repo.Save(session); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got != nil {
			t.Error("expected no session after clear")
		}

		// Clearing again is a no-op.
		if err := repo.Clear(); err != nil {
			t.Fatalf("second clear failed: %v", err)
		}
	})
}

func TestWishlistCacheRepository(t *testing.T) {
	dune := &models.WishlistItem{BookID: "book-1", Title: "Dune", ImageURL: "http://img/dune.jpg"}
	hyperion := &models.WishlistItem{BookID: "book-2", Title: "Hyperion"}

	t.Run("Add And List", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := repo.Add("user-42", hyperion); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		items, err := repo.List("user-42")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
	})

	t.Run("Add Is Idempotent Per Book", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("second add failed: %v", err)
		}

		items, err := repo.List("user-42")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("expected 1 item, got %d", len(items))
		}
	})

	t.Run("Entries Are Scoped Per User", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := repo.Add("user-7", hyperion); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		items, err := repo.List("user-42")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 1 || items[0].BookID != "book-1" {
			t.Errorf("expected only user-42's entry, got %+v", items)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := repo.Remove("user-42", "book-1"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}

		in, err := repo.Contains("user-42", "book-1")
		if err != nil {
			t.Fatalf("contains failed: %v", err)
		}
		if in {
			t.Error("expected entry removed")
		}

		// Removing an absent entry is a no-op.
		if err := repo.Remove("user-42", "book-1"); err != nil {
			t.Fatalf("second remove failed: %v", err)
		}
	})

	t.Run("Replace Swaps The Whole List", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		replacement := []*models.WishlistItem{
			{BookID: "book-3", Title: "Foundation"},
			{BookID: "book-4", Title: "Ubik"},
		}
		if err := repo.Replace("user-42", replacement); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		items, err := repo.List("user-42")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		for _, item := range items {
			if item.BookID == "book-1" {
				t.Error("expected the old entry gone")
			}
		}
	})

	t.Run("Replace With Empty List Clears", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := repo.Replace("user-42", nil); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		items, err := repo.List("user-42")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected empty list, got %d items", len(items))
		}
	})

	t.Run("Contains", func(t *testing.T) {
		repo := NewWishlistCacheRepository(newTestDB(t))

		if err := repo.Add("user-42", dune); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		in, err := repo.Contains("user-42", "book-1")
		if err != nil {
			t.Fatalf("contains failed: %v", err)
		}
		if !in {
			t.Error("expected book-1 in wishlist")
		}

		in, err = repo.Contains("user-42", "book-9")
		if err != nil {
			t.Fatalf("contains failed: %v", err)
		}
		if in {
			t.Error("did not expect book-9 in wishlist")
		}
	})
}

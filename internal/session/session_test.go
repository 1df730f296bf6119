package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/shared"
	tu "github.com/desertthunder/bookmind/internal/testing"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestStore builds a store with a mock API, in-memory repository and a
// controllable clock.
func newTestStore(api *tu.MockService) (*Store, *tu.MemoryRepository, *time.Time) {
	repo := &tu.MemoryRepository{}
	store := NewStore(StoreOpts{API: api, Repo: repo})

	now := base
	store.SetClock(func() time.Time { return now })
	return store, repo, &now
}

func loginTestStore(t *testing.T) (*Store, *tu.MemoryRepository, *time.Time) {
	t.Helper()

	api := &tu.MockService{
		LoginFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
			return &models.Session{UserID: "user-42", Username: "reader", Email: email, Token: "tok"}, nil
		},
	}
	store, repo, now := newTestStore(api)

	if _, err := store.Login(context.Background(), "reader@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return store, repo, now
}

func TestStore(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		t.Run("Success Persists Session", func(t *testing.T) {
			store, repo, _ := loginTestStore(t)

			session := store.Current()
			if session == nil {
				t.Fatal("expected an active session")
			}
			if session.UserID != "user-42" {
				t.Errorf("expected user-42, got %s", session.UserID)
			}
			if !session.LastActivityAt.Equal(base) {
				t.Errorf("expected last activity at login time, got %v", session.LastActivityAt)
			}
			if repo.Session == nil || repo.Session.Token != "tok" {
				t.Error("expected session persisted to the repository")
			}
		})

		t.Run("Failure Leaves State Unchanged", func(t *testing.T) {
			api := &tu.MockService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
					return nil, shared.ErrAuthFailed
				},
			}
			store, repo, _ := newTestStore(api)

			_, err := store.Login(context.Background(), "reader@example.com", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			if store.Current() != nil {
				t.Error("expected store to remain anonymous")
			}
			if repo.Session != nil {
				t.Error("expected nothing persisted")
			}
		})
	})

	t.Run("Register Never Establishes Session", func(t *testing.T) {
		api := &tu.MockService{}
		store, repo, _ := newTestStore(api)

		if err := store.Register(context.Background(), "new@example.com", "secret", "New Reader"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if store.Current() != nil {
			t.Error("register must not establish a session")
		}
		if repo.Session != nil {
			t.Error("register must not persist a session")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("Clears Active And Persisted Session", func(t *testing.T) {
			store, repo, _ := loginTestStore(t)

			store.Logout()

			if store.Current() != nil {
				t.Error("expected anonymous store after logout")
			}
			if repo.Session != nil {
				t.Error("expected persisted session cleared")
			}
		})

		t.Run("Is Idempotent", func(t *testing.T) {
			store, _, _ := newTestStore(&tu.MockService{})

			store.Logout()
			store.Logout()

			if store.Current() != nil {
				t.Error("expected store to remain anonymous")
			}
		})
	})

	t.Run("RecordActivity", func(t *testing.T) {
		t.Run("Refreshes Deadline", func(t *testing.T) {
			store, _, now := loginTestStore(t)

			*now = base.Add(10 * time.Minute)
			store.RecordActivity()

			want := base.Add(10*time.Minute + DefaultIdleLimit)
			if !store.Deadline().Equal(want) {
				t.Errorf("expected deadline %v, got %v", want, store.Deadline())
			}
		})

		t.Run("Activity Under Limit Keeps Session Alive", func(t *testing.T) {
			store, _, now := loginTestStore(t)

			// Repeated activity spaced under the idle limit never expires.
			for i := 0; i < 10; i++ {
				*now = now.Add(20 * time.Minute)
				store.RecordActivity()
				if store.CheckIdle() {
					t.Fatalf("session expired despite activity at step %d", i)
				}
			}

			if store.Current() == nil {
				t.Error("expected session to remain authenticated")
			}
		})

		t.Run("Persistence Is Throttled", func(t *testing.T) {
			store, repo, now := loginTestStore(t)
			saves := repo.SaveCount

			*now = now.Add(time.Second)
			store.RecordActivity()
			if repo.SaveCount != saves {
				t.Error("expected activity write-through to be throttled")
			}

			*now = now.Add(activityPersistInterval)
			store.RecordActivity()
			if repo.SaveCount != saves+1 {
				t.Error("expected activity persisted after the throttle interval")
			}
		})

		t.Run("No-Op When Anonymous", func(t *testing.T) {
			store, _, _ := newTestStore(&tu.MockService{})
			store.RecordActivity()

			if !store.Deadline().IsZero() {
				t.Error("expected zero deadline without a session")
			}
		})
	})

	t.Run("CheckIdle", func(t *testing.T) {
		t.Run("Expires Exactly Once", func(t *testing.T) {
			store, repo, now := loginTestStore(t)

			*now = base.Add(DefaultIdleLimit + time.Minute)

			if !store.CheckIdle() {
				t.Fatal("expected session to expire")
			}
			if store.Current() != nil {
				t.Error("expected anonymous store after expiry")
			}
			if repo.Session != nil {
				t.Error("expected persisted session cleared on expiry")
			}

			// A second check must not report a second expiry.
			if store.CheckIdle() {
				t.Error("expiry must fire exactly once")
			}
		})

		t.Run("Exactly At Limit Does Not Expire", func(t *testing.T) {
			store, _, now := loginTestStore(t)

			*now = base.Add(DefaultIdleLimit)

			if store.CheckIdle() {
				t.Error("session should survive exactly at the limit")
			}
		})
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("Loads Persisted Session", func(t *testing.T) {
			api := &tu.MockService{}
			store, repo, _ := newTestStore(api)
			repo.Session = &models.Session{
				UserID: "user-42", Username: "reader", Token: "tok",
				LastActivityAt: base.Add(-time.Minute),
			}

			if err := store.Restore(); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if store.Current() == nil || store.Current().UserID != "user-42" {
				t.Error("expected restored session")
			}
			if store.CheckIdle() {
				t.Error("recent session should not expire on restore")
			}
		})

		t.Run("Stale Session Expires Via CheckIdle", func(t *testing.T) {
			store, repo, _ := newTestStore(&tu.MockService{})
			repo.Session = &models.Session{
				UserID: "user-42", Username: "reader",
				LastActivityAt: base.Add(-DefaultIdleLimit - time.Hour),
			}

			if err := store.Restore(); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if !store.CheckIdle() {
				t.Error("expected stale session to expire on startup check")
			}
		})

		t.Run("Absent Session Means Anonymous", func(t *testing.T) {
			store, _, _ := newTestStore(&tu.MockService{})

			if err := store.Restore(); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if store.Current() != nil {
				t.Error("expected anonymous store")
			}
		})
	})

	t.Run("RefreshCounts", func(t *testing.T) {
		store, repo, _ := loginTestStore(t)

		store.RefreshCounts(&models.UserProfile{UserID: "user-42", FollowersCount: 7, FollowingCount: 3})

		session := store.Current()
		if session.FollowersCount != 7 || session.FollowingCount != 3 {
			t.Errorf("expected follow counts refreshed, got %d/%d", session.FollowersCount, session.FollowingCount)
		}
		if repo.Session.FollowersCount != 7 {
			t.Error("expected refreshed counts persisted")
		}

		// A profile for someone else must be ignored.
		store.RefreshCounts(&models.UserProfile{UserID: "user-7", FollowersCount: 99})
		if store.Current().FollowersCount != 7 {
			t.Error("expected counts unchanged for a foreign profile")
		}
	})

	t.Run("Teardown Clears Persisted State", func(t *testing.T) {
		store, repo, _ := loginTestStore(t)

		store.Teardown()

		if store.Current() != nil {
			t.Error("expected anonymous store after teardown")
		}
		if repo.Session != nil {
			t.Error("expected persisted session cleared")
		}
	})

	t.Run("Teardown Ignores Clear Errors", func(t *testing.T) {
		store, repo, _ := loginTestStore(t)
		repo.ClearErr = errors.New("disk full")

		store.Teardown()

		if store.Current() != nil {
			t.Error("teardown must not fail on repository errors")
		}
	})
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/bookmind/internal/shared"
)

func TestBookMindService(t *testing.T) {
	ctx := context.Background()

	newServer := func(t *testing.T, handler http.HandlerFunc) *BookMindService {
		t.Helper()
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		return NewBookMindService(BookMindOpts{BaseURL: server.URL, RequestsPerSec: 1000})
	}

	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewBookMindService(BookMindOpts{})

			if srv.baseURL != defaultBaseURL {
				t.Errorf("expected default baseURL %q, got %q", defaultBaseURL, srv.baseURL)
			}
			if srv.httpClient == nil {
				t.Error("expected default http client")
			}
		})

		t.Run("With Custom Client", func(t *testing.T) {
			client := &http.Client{}
			srv := NewBookMindService(BookMindOpts{BaseURL: "http://example.com", HTTPClient: client})

			if srv.httpClient != client {
				t.Error("expected custom client to be used")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Successful Login Installs Token", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/login" {
					t.Errorf("expected path '/auth/login', got %s", r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "reader@example.com" {
					t.Errorf("expected email in request body, got %v", body)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"uid":          "u1",
					"display_name": "Reader",
					"token":        "abc123",
				})
			})

			session, err := srv.Login(ctx, "reader@example.com", "secret")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if session.UserID != "u1" {
				t.Errorf("expected user id 'u1', got %s", session.UserID)
			}
			if session.Email != "reader@example.com" {
				t.Errorf("expected email backfilled, got %s", session.Email)
			}
			if srv.token != "abc123" {
				t.Errorf("expected bearer token installed, got %q", srv.token)
			}
		})

		t.Run("Invalid Credentials Map to ErrAuthFailed", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			})

			_, err := srv.Login(ctx, "reader@example.com", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("Duplicate Account Maps to ErrDuplicateUser", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "email already registered"})
			})

			err := srv.Register(ctx, "reader@example.com", "secret", "Reader")
			if !errors.Is(err, shared.ErrDuplicateUser) {
				t.Errorf("expected ErrDuplicateUser, got %v", err)
			}
		})

		t.Run("Success Returns No Session", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"status": "created"})
			})

			if err := srv.Register(ctx, "reader@example.com", "secret", "Reader"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.token != "" {
				t.Error("expected no token after registration")
			}
		})
	})

	t.Run("Requests", func(t *testing.T) {
		t.Run("Bearer Token Is Sent When Set", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer abc123" {
					t.Errorf("expected bearer header, got %q", got)
				}
				json.NewEncoder(w).Encode([]any{})
			})
			srv.SetToken("abc123")

			if _, err := srv.RecentRatings(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Not Found Maps to ErrBookNotFound", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			_, err := srv.BookDetails(ctx, "missing")
			if !errors.Is(err, shared.ErrBookNotFound) {
				t.Errorf("expected ErrBookNotFound, got %v", err)
			}
		})

		t.Run("Unreachable Server Maps to ErrServiceUnavailable", func(t *testing.T) {
			srv := NewBookMindService(BookMindOpts{BaseURL: "http://127.0.0.1:1", RequestsPerSec: 1000})

			_, err := srv.SearchBooks(ctx, "dune")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("SearchBooks", func(t *testing.T) {
		t.Run("Empty Query Short Circuits", func(t *testing.T) {
			called := false
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			books, err := srv.SearchBooks(ctx, "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if books != nil || called {
				t.Error("expected no request for an empty query")
			}
		})

		t.Run("Escapes Query Parameter", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("query"); got != "war & peace" {
					t.Errorf("expected decoded query 'war & peace', got %q", got)
				}
				json.NewEncoder(w).Encode([]map[string]string{{"book_id": "b1", "title": "War and Peace"}})
			})

			books, err := srv.SearchBooks(ctx, "war & peace")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(books) != 1 || books[0].BookID != "b1" {
				t.Errorf("unexpected books %+v", books)
			}
		})
	})

	t.Run("SubmitRating", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/books/b1/rate" {
				t.Errorf("expected path '/books/b1/rate', got %s", r.URL.Path)
			}
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["rating"] != float64(4) {
				t.Errorf("expected rating 4, got %v", body["rating"])
			}
			if body["review"] != "great" {
				t.Errorf("expected review 'great', got %v", body["review"])
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		err := srv.SubmitRating(ctx, RatingSubmission{
			BookID: "b1",
			UserID: "u1",
			Score:  4,
			Review: "great",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("DeleteRating", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE method, got %s", r.Method)
			}
			if got := r.URL.Query().Get("user_id"); got != "u1" {
				t.Errorf("expected user_id 'u1', got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
		})

		if err := srv.DeleteRating(ctx, "b1", "u1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("ToggleWishlist", func(t *testing.T) {
		t.Run("Added Status", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"status": "added"})
			})

			added, err := srv.ToggleWishlist(ctx, WishlistToggle{BookID: "b1", UserID: "u1"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !added {
				t.Error("expected added=true")
			}
		})

		t.Run("Removed Status", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"status": "removed"})
			})

			added, err := srv.ToggleWishlist(ctx, WishlistToggle{BookID: "b1", UserID: "u1"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if added {
				t.Error("expected added=false")
			}
		})

		t.Run("Unexpected Status Is an Error", func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
			})

			_, err := srv.ToggleWishlist(ctx, WishlistToggle{BookID: "b1", UserID: "u1"})
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("IsFollowing", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("follower_id") != "u1" || q.Get("following_id") != "u2" {
				t.Errorf("unexpected query %v", q)
			}
			json.NewEncoder(w).Encode(map[string]bool{"is_following": true})
		})

		following, err := srv.IsFollowing(ctx, "u1", "u2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !following {
			t.Error("expected following=true")
		}
	})
}

package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/shared"
	tu "github.com/desertthunder/bookmind/internal/testing"
)

func fixtureService() *tu.MockService {
	return &tu.MockService{
		UserProfileFunc: func(ctx context.Context, userID string) (*models.UserProfile, error) {
			return &models.UserProfile{UserID: userID, Username: "reader"}, nil
		},
		UserRatingsFunc: func(ctx context.Context, userID string) ([]models.Rating, error) {
			return []models.Rating{{ID: "r1", BookID: "b1", Score: 4}}, nil
		},
		UserWishlistFunc: func(ctx context.Context, userID string) ([]models.WishlistItem, error) {
			return []models.WishlistItem{{BookID: "b2", Title: "Dune"}}, nil
		},
		RecommendationsFunc: func(ctx context.Context, userID string) ([]models.Book, error) {
			return []models.Book{{BookID: "b3", Title: "Hyperion"}}, nil
		},
	}
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	updates := []ProgressUpdate{}
	for {
		select {
		case u := <-progress:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestLibraryEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Snapshot", func(t *testing.T) {
		t.Run("Fetches All Sections", func(t *testing.T) {
			api := fixtureService()
			engine := NewLibraryEngine(api)
			progress := make(chan ProgressUpdate, 16)

			snap, err := engine.Snapshot(ctx, progress, "u1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if snap.Profile == nil || snap.Profile.Username != "reader" {
				t.Errorf("expected profile populated, got %+v", snap.Profile)
			}
			if len(snap.Ratings) != 1 || len(snap.Wishlist) != 1 || len(snap.Recommendations) != 1 {
				t.Errorf("expected all sections populated, got %+v", snap)
			}
			if len(snap.Errors) != 0 {
				t.Errorf("expected no section errors, got %v", snap.Errors)
			}

			updates := drain(progress)
			if len(updates) != 4 {
				t.Errorf("expected 4 progress updates, got %d", len(updates))
			}
		})

		t.Run("Tolerates Partial Failure", func(t *testing.T) {
			api := fixtureService()
			api.UserWishlistFunc = func(ctx context.Context, userID string) ([]models.WishlistItem, error) {
				return nil, errors.New("wishlist endpoint down")
			}
			engine := NewLibraryEngine(api)

			snap, err := engine.Snapshot(ctx, nil, "u1")
			if err != nil {
				t.Fatalf("expected no error on partial failure, got %v", err)
			}
			if len(snap.Errors) != 1 || snap.Errors[0].Section != "wishlist" {
				t.Errorf("expected one wishlist section error, got %v", snap.Errors)
			}
			if snap.Profile == nil || len(snap.Ratings) != 1 {
				t.Error("expected surviving sections populated")
			}
		})

		t.Run("Fails When Every Section Fails", func(t *testing.T) {
			down := errors.New("down")
			api := &tu.MockService{
				UserProfileFunc: func(ctx context.Context, userID string) (*models.UserProfile, error) {
					return nil, down
				},
				UserRatingsFunc: func(ctx context.Context, userID string) ([]models.Rating, error) {
					return nil, down
				},
				UserWishlistFunc: func(ctx context.Context, userID string) ([]models.WishlistItem, error) {
					return nil, down
				},
				RecommendationsFunc: func(ctx context.Context, userID string) ([]models.Book, error) {
					return nil, down
				},
			}
			engine := NewLibraryEngine(api)

			_, err := engine.Snapshot(ctx, nil, "u1")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Requires a User ID", func(t *testing.T) {
			engine := NewLibraryEngine(fixtureService())

			_, err := engine.Snapshot(ctx, nil, "")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("Stops on Cancelled Context", func(t *testing.T) {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			engine := NewLibraryEngine(fixtureService())

			_, err := engine.Snapshot(cancelled, nil, "u1")
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})

	t.Run("Export", func(t *testing.T) {
		t.Run("Writes Section Files and Manifest", func(t *testing.T) {
			dir := t.TempDir()
			engine := NewLibraryEngine(fixtureService())
			engine.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
			progress := make(chan ProgressUpdate, 16)

			result, err := engine.Export(ctx, progress, "u1", ExportOpts{OutputDir: dir})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Files) != 4 {
				t.Errorf("expected 4 section files, got %v", result.Files)
			}
			for _, name := range []string{"profile.json", "ratings.json", "wishlist.json", "recommendations.json", "export_manifest.json"} {
				tu.AssertFileExists(t, filepath.Join(dir, name))
			}

			manifest := tu.MustReadFile(t, result.ManifestPath)
			if !strings.Contains(manifest, "ratings.json") {
				t.Errorf("expected manifest to list section files, got %s", manifest)
			}
		})

		t.Run("Combined Writes a Single Library File", func(t *testing.T) {
			dir := t.TempDir()
			engine := NewLibraryEngine(fixtureService())

			result, err := engine.Export(ctx, nil, "u1", ExportOpts{OutputDir: dir, Combined: true})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Files) != 1 {
				t.Errorf("expected one file, got %v", result.Files)
			}
			tu.AssertFileExists(t, filepath.Join(dir, "library.json"))

			library := tu.MustReadFile(t, result.Files[0])
			if !strings.Contains(library, "Hyperion") {
				t.Errorf("expected recommendations embedded, got %s", library)
			}
		})

		t.Run("Skips Files for Failed Sections", func(t *testing.T) {
			dir := t.TempDir()
			api := fixtureService()
			api.RecommendationsFunc = func(ctx context.Context, userID string) ([]models.Book, error) {
				return nil, errors.New("recs endpoint down")
			}
			engine := NewLibraryEngine(api)

			result, err := engine.Export(ctx, nil, "u1", ExportOpts{OutputDir: dir})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Failed) != 1 || result.Failed[0].Section != "recommendations" {
				t.Errorf("expected recommendations failure recorded, got %v", result.Failed)
			}
			for _, path := range result.Files {
				if strings.Contains(path, "recommendations") {
					t.Errorf("expected no recommendations file, got %v", result.Files)
				}
			}
		})
	})
}

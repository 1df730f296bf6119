package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/shared"
)

// SectionResult records a section fetch that failed. Snapshots tolerate
// partial failure so one unreachable endpoint does not lose the rest.
type SectionResult struct {
	Section string `json:"section"`
	Error   string `json:"error"`
}

// LibrarySnapshot contains a user's reading data as fetched from the API.
type LibrarySnapshot struct {
	UserID          string                `json:"uid"`
	TakenAt         time.Time             `json:"taken_at"`
	Profile         *models.UserProfile   `json:"profile,omitempty"`
	Ratings         []models.Rating       `json:"ratings,omitempty"`
	Wishlist        []models.WishlistItem `json:"wishlist,omitempty"`
	Recommendations []models.Book         `json:"recommendations,omitempty"`
	Errors          []SectionResult       `json:"errors,omitempty"`
}

// ExportOpts contains configuration for library exports.
type ExportOpts struct {
	OutputDir string // Base output directory (default: bookmind_export_{epoch})
	Combined  bool   // Write one library.json instead of per-section files
}

// ExportResult summarizes a completed export.
type ExportResult struct {
	OutputDirectory string          `json:"output_directory"`
	Files           []string        `json:"files"`
	Failed          []SectionResult `json:"failed,omitempty"`
	ManifestPath    string          `json:"-"`
}

// Engine defines long-running library operations.
type Engine interface {
	// Snapshot fetches a user's profile, ratings, reading list and
	// recommendations, tolerating per-section failures.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate, userID string) (*LibrarySnapshot, error)

	// Export snapshots a user's library and writes it to disk as JSON.
	Export(ctx context.Context, progress chan<- ProgressUpdate, userID string, opts ExportOpts) (*ExportResult, error)
}

// LibraryEngine implements Engine against the remote API.
type LibraryEngine struct {
	api services.Service
	now func() time.Time
}

// NewLibraryEngine creates a new LibraryEngine backed by the given service.
func NewLibraryEngine(api services.Service) *LibraryEngine {
	return &LibraryEngine{api: api, now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type sectionOperation struct {
	name  string
	phase Phase
	fetch func(ctx context.Context, snap *LibrarySnapshot) error
}

func (e *LibraryEngine) sections(userID string) []sectionOperation {
	return []sectionOperation{
		{"profile", FetchProfile, func(ctx context.Context, snap *LibrarySnapshot) error {
			profile, err := e.api.UserProfile(ctx, userID)
			if err != nil {
				return err
			}
			snap.Profile = profile
			return nil
		}},
		{"ratings", FetchRatings, func(ctx context.Context, snap *LibrarySnapshot) error {
			ratings, err := e.api.UserRatings(ctx, userID)
			if err != nil {
				return err
			}
			snap.Ratings = ratings
			return nil
		}},
		{"wishlist", FetchWishlist, func(ctx context.Context, snap *LibrarySnapshot) error {
			items, err := e.api.UserWishlist(ctx, userID)
			if err != nil {
				return err
			}
			snap.Wishlist = items
			return nil
		}},
		{"recommendations", FetchRecommendations, func(ctx context.Context, snap *LibrarySnapshot) error {
			books, err := e.api.Recommendations(ctx, userID)
			if err != nil {
				return err
			}
			snap.Recommendations = books
			return nil
		}},
	}
}

// Snapshot fetches the user's library section by section. A failed section is
// recorded on the snapshot rather than aborting the whole operation; the
// returned error is non-nil only when every section failed.
func (e *LibraryEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate, userID string) (*LibrarySnapshot, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", shared.ErrInvalidArgument)
	}

	snap := &LibrarySnapshot{UserID: userID, TakenAt: e.now()}
	operations := e.sections(userID)

	for i, op := range operations {
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		default:
		}

		e.sendProgress(progress, sectionUpdate(op.phase, i+1, len(operations), op.name))
		if err := op.fetch(ctx, snap); err != nil {
			snap.Errors = append(snap.Errors, SectionResult{Section: op.name, Error: err.Error()})
			e.sendProgress(progress, sectionFailedUpdate(op.phase, i+1, len(operations), op.name, err))
		}
	}

	if len(snap.Errors) == len(operations) {
		return snap, fmt.Errorf("%w: all sections failed", shared.ErrAPIRequest)
	}
	return snap, nil
}

// Export snapshots the library and writes it under opts.OutputDir, one JSON
// file per section (or a single library.json when Combined), plus a manifest
// summarizing what was written.
func (e *LibraryEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, userID string, opts ExportOpts) (*ExportResult, error) {
	snap, err := e.Snapshot(ctx, progress, userID)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("bookmind_export_%d", e.now().Unix())
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		Files:           []string{},
		Failed:          snap.Errors,
	}

	files := map[string]any{}
	if opts.Combined {
		files["library.json"] = snap
	} else {
		if snap.Profile != nil {
			files["profile.json"] = snap.Profile
		}
		if snap.Ratings != nil {
			files["ratings.json"] = snap.Ratings
		}
		if snap.Wishlist != nil {
			files["wishlist.json"] = snap.Wishlist
		}
		if snap.Recommendations != nil {
			files["recommendations.json"] = snap.Recommendations
		}
	}

	step := 0
	for _, name := range []string{"library.json", "profile.json", "ratings.json", "wishlist.json", "recommendations.json"} {
		data, ok := files[name]
		if !ok {
			continue
		}
		step++

		path := filepath.Join(opts.OutputDir, name)
		if err := writeJSONFile(path, data); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", name, err)
		}
		result.Files = append(result.Files, path)
		e.sendProgress(progress, writeSectionUpdate(step, len(files), path))
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeJSONFile(manifestPath, result); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func writeJSONFile(path string, data any) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0644)
}

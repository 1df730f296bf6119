package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchRatings
	FetchWishlist
	FetchRecommendations
	WriteSection
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchRatings:
		return "fetch_ratings"
	case FetchWishlist:
		return "fetch_wishlist"
	case FetchRecommendations:
		return "fetch_recommendations"
	case WriteSection:
		return "write_section"
	default:
		return ""
	}
}

func sectionUpdate(phase Phase, step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, name),
	}
}

func sectionFailedUpdate(phase Phase, step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func writeSectionUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteSection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, path),
		Data:    path,
	}
}

package interactions

import (
	"context"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/state"
)

// Likes controls the heart toggle on reviews. Toggles are silent; only
// failures surface a notification.
type Likes struct {
	engine *state.Engine[models.LikeState]
	api    services.Service
	userID string
}

// NewLikes creates a likes controller reporting through notifier.
func NewLikes(api services.Service, notifier *state.Notifier) *Likes {
	return &Likes{
		engine: state.NewEngine[models.LikeState](notifier),
		api:    api,
	}
}

// SetActor switches the acting user, discarding the previous user's records.
func (l *Likes) SetActor(userID string) {
	l.userID = userID
	l.engine.SetActor(userID)
}

// SeedFromRatings seeds like state from a fetched review list. Reviews with a
// pending toggle keep their optimistic value.
func (l *Likes) SeedFromRatings(ratings []models.Rating) {
	for _, rating := range ratings {
		l.engine.Seed(rating.ID, models.LikeState{
			Liked: rating.LikedByUser(l.userID),
			Count: len(rating.LikedBy),
		})
	}
}

// State returns the latest local like state for a review.
func (l *Likes) State(ratingID string) models.LikeState { return l.engine.Value(ratingID) }

// Pending reports whether a like toggle awaits confirmation for a review.
func (l *Likes) Pending(ratingID string) bool { return l.engine.Pending(ratingID) }

// Toggle stages a like flip for a review. The new state derives from the
// latest local value, so two quick presses net out to the original state.
func (l *Likes) Toggle(ratingID string) (call state.Call[models.LikeState], start bool) {
	return l.engine.Apply(ratingID, state.Mutation[models.LikeState]{
		Op: state.OpUpdate,
		Compute: func(v models.LikeState) models.LikeState {
			if v.Liked {
				return models.LikeState{Liked: false, Count: v.Count - 1}
			}
			return models.LikeState{Liked: true, Count: v.Count + 1}
		},
		Call: func(ctx context.Context) (models.LikeState, bool, error) {
			return models.LikeState{}, false, l.api.ToggleLike(ctx, ratingID, l.userID)
		},
		FailureMessage: "Could not update the like. Please try again.",
	})
}

// Resolve reconciles a toggle outcome and returns the next queued call for
// the review, if any.
func (l *Likes) Resolve(ratingID string, err error) (next state.Call[models.LikeState], more bool) {
	next, _, more = l.engine.Resolve(ratingID, models.LikeState{}, false, err)
	return next, more
}

package interactions

import (
	"context"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/state"
)

// Ratings controls the user's star ratings and reviews. A confirmed submit
// invalidates the recommendation list, which the server recomputes from
// rating changes.
type Ratings struct {
	engine   *state.Engine[models.RatingState]
	api      services.Service
	notifier *state.Notifier
	userID   string
}

// NewRatings creates a ratings controller reporting through notifier.
func NewRatings(api services.Service, notifier *state.Notifier) *Ratings {
	return &Ratings{
		engine:   state.NewEngine[models.RatingState](notifier),
		api:      api,
		notifier: notifier,
	}
}

// SetActor switches the acting user, discarding the previous user's records.
func (r *Ratings) SetActor(userID string) {
	r.userID = userID
	r.engine.SetActor(userID)
}

// Seed installs a server-confirmed rating, typically from a ratings fetch.
func (r *Ratings) Seed(bookID string, st models.RatingState) {
	r.engine.Seed(bookID, st)
}

// SeedFromRatings seeds the engine from the actor's fetched rating list.
func (r *Ratings) SeedFromRatings(ratings []models.Rating) {
	for _, rating := range ratings {
		if rating.UserID != r.userID {
			continue
		}
		r.engine.Seed(rating.BookID, models.RatingState{Score: rating.Score, Review: rating.Review})
	}
}

// Existing returns the actor's current rating for a book, used to prefill the
// rating form. The second return reports whether a rating exists.
func (r *Ratings) Existing(bookID string) (models.RatingState, bool) {
	st := r.engine.Value(bookID)
	return st, st.Exists()
}

// Pending reports whether a rating mutation awaits confirmation for a book.
func (r *Ratings) Pending(bookID string) bool { return r.engine.Pending(bookID) }

// Submit stages a rating for a book. A score outside 1 through 5 raises a
// warning and stages nothing. Whether this is a create or an update is
// decided from the latest local value, so a form submitted twice quickly
// counts the second as an update.
//
// The returned call is issued by the caller; start is false when an earlier
// mutation for the book is still in flight, in which case [Ratings.Resolve]
// releases it later.
func (r *Ratings) Submit(sub services.RatingSubmission) (call state.Call[models.RatingState], op state.Op, start bool) {
	if sub.Score < 1 || sub.Score > 5 {
		r.notifier.Warn("Choose at least one star before submitting.")
		return nil, state.OpNone, false
	}

	op = state.OpCreate
	if r.engine.Value(sub.BookID).Exists() {
		op = state.OpUpdate
	}

	call, start = r.engine.Apply(sub.BookID, state.Mutation[models.RatingState]{
		Op: op,
		Compute: func(models.RatingState) models.RatingState {
			return models.RatingState{Score: sub.Score, Review: sub.Review}
		},
		Call: func(ctx context.Context) (models.RatingState, bool, error) {
			return models.RatingState{}, false, r.api.SubmitRating(ctx, sub)
		},
		FailureMessage: "Could not save your rating. Please try again.",
	})
	return call, op, start
}

// Delete stages removal of the actor's rating for a book. Staging is skipped
// when no rating exists locally.
func (r *Ratings) Delete(bookID string) (call state.Call[models.RatingState], op state.Op, start bool) {
	if !r.engine.Value(bookID).Exists() {
		return nil, state.OpNone, false
	}

	call, start = r.engine.Apply(bookID, state.Mutation[models.RatingState]{
		Op:      state.OpDelete,
		Compute: func(models.RatingState) models.RatingState { return models.RatingState{} },
		Call: func(ctx context.Context) (models.RatingState, bool, error) {
			return models.RatingState{}, false, r.api.DeleteRating(ctx, bookID, r.userID)
		},
		FailureMessage: "Could not remove your rating. Please try again.",
	})
	return call, state.OpDelete, start
}

// Resolve reconciles a submit or delete outcome. It returns the next queued
// call for the book, if any, together with its op, and whether the
// recommendation list should be refetched. Refetch is requested exactly once
// per confirmed submit, never on failure or delete.
func (r *Ratings) Resolve(bookID string, op state.Op, err error) (next state.Call[models.RatingState], nextOp state.Op, refetch bool) {
	next, nextOp, _ = r.engine.Resolve(bookID, models.RatingState{}, false, err)
	if err != nil {
		return next, nextOp, false
	}

	switch op {
	case state.OpCreate:
		r.notifier.Success("Rating submitted!")
	case state.OpUpdate:
		r.notifier.Success("Rating updated!")
	case state.OpDelete:
		r.notifier.Success("Rating removed.")
	}
	return next, nextOp, op == state.OpCreate || op == state.OpUpdate
}

package interactions

import (
	"context"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/state"
)

// Follow controls follow edges from the actor to other users. A confirmed
// change invalidates the target's profile, whose follower counts the server
// owns.
type Follow struct {
	engine   *state.Engine[models.FollowState]
	api      services.Service
	notifier *state.Notifier
	userID   string
}

// NewFollow creates a follow controller reporting through notifier.
func NewFollow(api services.Service, notifier *state.Notifier) *Follow {
	return &Follow{
		engine:   state.NewEngine[models.FollowState](notifier),
		api:      api,
		notifier: notifier,
	}
}

// SetActor switches the acting user, discarding the previous user's records.
func (f *Follow) SetActor(userID string) {
	f.userID = userID
	f.engine.SetActor(userID)
}

// Seed installs server-confirmed follow state, typically from an edge check.
func (f *Follow) Seed(targetID string, following bool) {
	f.engine.Seed(targetID, models.FollowState{Following: following})
}

// State returns the latest local follow state towards a user.
func (f *Follow) State(targetID string) models.FollowState { return f.engine.Value(targetID) }

// Pending reports whether a follow change awaits confirmation for a user.
func (f *Follow) Pending(targetID string) bool { return f.engine.Pending(targetID) }

// Toggle stages a follow flip towards a user. The direction of the remote
// call matches the locally computed state: follow when flipping on, unfollow
// when flipping off.
func (f *Follow) Toggle(targetID string) (call state.Call[models.FollowState], start bool) {
	following := !f.engine.Value(targetID).Following

	return f.engine.Apply(targetID, state.Mutation[models.FollowState]{
		Op: state.OpUpdate,
		Compute: func(v models.FollowState) models.FollowState {
			return models.FollowState{Following: !v.Following}
		},
		Call: func(ctx context.Context) (models.FollowState, bool, error) {
			if following {
				return models.FollowState{}, false, f.api.Follow(ctx, f.userID, targetID)
			}
			return models.FollowState{}, false, f.api.Unfollow(ctx, f.userID, targetID)
		},
		FailureMessage: "Could not update the follow. Please try again.",
	})
}

// Resolve reconciles a toggle outcome. It returns the next queued call for
// the user, if any, and whether the target's profile should be refetched to
// pick up new follower counts.
func (f *Follow) Resolve(targetID, displayName string, err error) (next state.Call[models.FollowState], more bool, refetch bool) {
	next, _, more = f.engine.Resolve(targetID, models.FollowState{}, false, err)
	if err != nil || more {
		return next, more, false
	}

	if f.engine.Value(targetID).Following {
		f.notifier.Success("You are now following " + displayName + ".")
	} else {
		f.notifier.Success("Unfollowed " + displayName + ".")
	}
	return next, more, true
}

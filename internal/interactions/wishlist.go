package interactions

import (
	"context"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/state"
)

// WishlistCache mirrors confirmed wishlist membership to local storage so the
// list is available without a round trip.
type WishlistCache interface {
	Add(userID string, item *models.WishlistItem) error
	Remove(userID, bookID string) error
}

// Wishlist controls reading-list membership. The server owns the toggle and
// reports the resulting state, which the engine adopts as canonical once no
// later toggle is staged on top.
type Wishlist struct {
	engine   *state.Engine[models.WishlistState]
	api      services.Service
	notifier *state.Notifier
	cache    WishlistCache
	userID   string
}

// WishlistOpts contains configuration options for creating a [Wishlist].
type WishlistOpts struct {
	API      services.Service
	Notifier *state.Notifier
	// Cache is optional; without it confirmed toggles are not mirrored.
	Cache WishlistCache
}

// NewWishlist creates a wishlist controller.
func NewWishlist(opts WishlistOpts) *Wishlist {
	return &Wishlist{
		engine:   state.NewEngine[models.WishlistState](opts.Notifier),
		api:      opts.API,
		notifier: opts.Notifier,
		cache:    opts.Cache,
	}
}

// SetActor switches the acting user, discarding the previous user's records.
func (w *Wishlist) SetActor(userID string) {
	w.userID = userID
	w.engine.SetActor(userID)
}

// Seed installs server-confirmed membership, typically from a status check.
func (w *Wishlist) Seed(bookID string, in bool) {
	w.engine.Seed(bookID, models.WishlistState{In: in})
}

// State returns the latest local membership for a book.
func (w *Wishlist) State(bookID string) models.WishlistState { return w.engine.Value(bookID) }

// Pending reports whether a toggle awaits confirmation for a book.
func (w *Wishlist) Pending(bookID string) bool { return w.engine.Pending(bookID) }

// Toggle stages a membership flip. The local flip chains off the latest local
// value; the server toggle is direction-agnostic and reports the state it
// ended on.
func (w *Wishlist) Toggle(t services.WishlistToggle) (call state.Call[models.WishlistState], start bool) {
	t.UserID = w.userID
	return w.engine.Apply(t.BookID, state.Mutation[models.WishlistState]{
		Op: state.OpUpdate,
		Compute: func(v models.WishlistState) models.WishlistState {
			return models.WishlistState{In: !v.In}
		},
		Call: func(ctx context.Context) (models.WishlistState, bool, error) {
			added, err := w.api.ToggleWishlist(ctx, t)
			if err != nil {
				return models.WishlistState{}, false, err
			}
			return models.WishlistState{In: added}, true, nil
		},
		FailureMessage: "Could not update your wishlist. Please try again.",
	})
}

// Resolve reconciles a toggle outcome. When the subject settles, the
// confirmed state is announced and mirrored to the cache; intermediate
// confirmations with further toggles queued stay silent.
func (w *Wishlist) Resolve(t services.WishlistToggle, value models.WishlistState, canonical bool, err error) (next state.Call[models.WishlistState], more bool) {
	next, _, more = w.engine.Resolve(t.BookID, value, canonical, err)
	if err != nil || more {
		return next, more
	}

	settled := w.engine.Value(t.BookID)
	if settled.In {
		w.notifier.Success("Added " + t.Title + " to your wishlist.")
	} else {
		w.notifier.Success("Removed " + t.Title + " from your wishlist.")
	}
	w.mirror(t, settled.In)
	return next, more
}

func (w *Wishlist) mirror(t services.WishlistToggle, in bool) {
	if w.cache == nil {
		return
	}

	if in {
		_ = w.cache.Add(w.userID, &models.WishlistItem{BookID: t.BookID, Title: t.Title, ImageURL: t.ImageURL})
	} else {
		_ = w.cache.Remove(w.userID, t.BookID)
	}
}

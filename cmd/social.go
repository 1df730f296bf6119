package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/bookmind/internal/interactions"
	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/desertthunder/bookmind/internal/state"
	"github.com/urfave/cli/v3"
)

// Recs shows the user's recommendation list.
func (r *Runner) Recs(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	recs, err := r.api.Recommendations(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, true)
	}

	if len(recs) == 0 {
		return r.writePlain("No recommendations yet. Rate a few books first.\n")
	}
	for _, book := range recs {
		r.writePlain("%s  %s — %s\n", book.BookID, book.Title, book.Author)
	}
	return nil
}

// Feed shows recent ratings from the community.
func (r *Runner) Feed(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	ratings, err := r.api.RecentRatings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch the feed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(ratings, true)
	}

	for _, rating := range ratings {
		liked := " "
		if rating.LikedByUser(session.UserID) {
			liked = "♥"
		}
		r.writePlain("%s  %s %s by %s %s %d\n",
			rating.ID, renderStars(rating.Score), rating.BookTitle, rating.DisplayName, liked, len(rating.LikedBy))
	}
	return nil
}

// FeedLike toggles the user's like on a review.
func (r *Runner) FeedLike(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	ratingID := cmd.StringArg("rating-id")
	if ratingID == "" {
		return fmt.Errorf("%w: a rating id is required", shared.ErrMissingArgument)
	}

	notifier := state.NewNotifier(state.DefaultNotificationTTL)
	likes := interactions.NewLikes(r.api, notifier)
	likes.SetActor(session.UserID)

	if feed, err := r.api.RecentRatings(ctx); err == nil {
		likes.SeedFromRatings(feed)
	}

	call, start := likes.Toggle(ratingID)
	if !start {
		return nil
	}

	_, _, callErr := call(ctx)
	likes.Resolve(ratingID, callErr)
	if callErr != nil {
		return r.notifyResult(notifier, "")
	}

	st := likes.State(ratingID)
	if st.Liked {
		return r.writePlain("✓ Liked (%d total)\n", st.Count)
	}
	return r.writePlain("✓ Like removed (%d total)\n", st.Count)
}

// WishlistToggle adds or removes a book from the reading list.
func (r *Runner) WishlistToggle(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	bookID := cmd.StringArg("book-id")
	if bookID == "" {
		return fmt.Errorf("%w: a book id is required", shared.ErrMissingArgument)
	}

	book, err := r.api.BookDetails(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}

	notifier := state.NewNotifier(state.DefaultNotificationTTL)
	wishlist := interactions.NewWishlist(interactions.WishlistOpts{
		API:      r.api,
		Notifier: notifier,
		Cache:    r.wishing,
	})
	wishlist.SetActor(session.UserID)

	if in, err := r.api.WishlistStatus(ctx, bookID, session.UserID); err == nil {
		wishlist.Seed(bookID, in)
	}

	toggle := services.WishlistToggle{BookID: bookID, Title: book.Title, ImageURL: book.ImageURL}
	call, start := wishlist.Toggle(toggle)
	if !start {
		return nil
	}

	value, canonical, callErr := call(ctx)
	wishlist.Resolve(toggle, value, canonical, callErr)
	return r.notifyResult(notifier, "Wishlist updated")
}

// WishlistList lists the reading list, from the server or the local cache.
func (r *Runner) WishlistList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	items, err := r.api.UserWishlist(ctx, session.UserID)
	if err != nil || cmd.Bool("cached") {
		// Fall back to the cache when offline.
		cached, cacheErr := r.wishing.List(session.UserID)
		if cacheErr != nil {
			if err != nil {
				return fmt.Errorf("failed to fetch wishlist: %w", err)
			}
			return fmt.Errorf("failed to read wishlist cache: %w", cacheErr)
		}
		items = items[:0]
		for _, it := range cached {
			items = append(items, *it)
		}
	} else {
		// Keep the cache in step with the server's answer.
		ptrs := make([]*models.WishlistItem, len(items))
		for i := range items {
			ptrs[i] = &items[i]
		}
		if err := r.wishing.Replace(session.UserID, ptrs); err != nil {
			r.logger.Warn("failed to refresh wishlist cache", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	if len(items) == 0 {
		return r.writePlain("Your wishlist is empty.\n")
	}
	for _, item := range items {
		r.writePlain("%s  %s\n", item.BookID, item.Title)
	}
	return nil
}

// FollowToggle follows a reader, or unfollows when already following.
func (r *Runner) FollowToggle(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	targetID := cmd.StringArg("user-id")
	if targetID == "" {
		return fmt.Errorf("%w: a user id is required", shared.ErrMissingArgument)
	}
	if targetID == session.UserID {
		return fmt.Errorf("%w: you cannot follow yourself", shared.ErrInvalidArgument)
	}

	profile, err := r.api.UserProfile(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	notifier := state.NewNotifier(state.DefaultNotificationTTL)
	follow := interactions.NewFollow(r.api, notifier)
	follow.SetActor(session.UserID)

	if following, err := r.api.IsFollowing(ctx, session.UserID, targetID); err == nil {
		follow.Seed(targetID, following)
	}

	call, start := follow.Toggle(targetID)
	if !start {
		return nil
	}

	_, _, callErr := call(ctx)
	follow.Resolve(targetID, profile.Username, callErr)
	return r.notifyResult(notifier, "Follow updated")
}

// FollowStatus checks whether the user follows a reader.
func (r *Runner) FollowStatus(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	targetID := cmd.StringArg("user-id")
	if targetID == "" {
		return fmt.Errorf("%w: a user id is required", shared.ErrMissingArgument)
	}

	following, err := r.api.IsFollowing(ctx, session.UserID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow state: %w", err)
	}

	if following {
		return r.writePlain("✓ You follow %s\n", targetID)
	}
	return r.writePlain("You do not follow %s\n", targetID)
}

// UsersSearch finds readers by username.
func (r *Runner) UsersSearch(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	users, err := r.api.SearchUsers(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		return r.writePlain("No readers matched %q\n", query)
	}
	for _, user := range users {
		r.writePlain("%s  %s\n", user.UserID, user.Username)
	}
	return nil
}

// UsersProfile shows a reader's profile and ratings.
func (r *Runner) UsersProfile(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	userID := cmd.StringArg("user-id")
	if userID == "" {
		userID = session.UserID
	}

	profile, err := r.api.UserProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	ratings, err := r.api.UserRatings(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch ratings: %w", err)
	}

	if userID == session.UserID {
		r.store.RefreshCounts(profile)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"profile": profile, "ratings": ratings}, true)
	}

	r.writePlain("%s\n", profile.Username)
	r.writePlain("Followers: %d • Following: %d\n", profile.FollowersCount, profile.FollowingCount)
	if len(ratings) > 0 {
		r.writePlainln("Ratings:")
		for _, rating := range ratings {
			ratingLine(r, rating)
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/bookmind/internal/interactions"
	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/desertthunder/bookmind/internal/state"
	"github.com/urfave/cli/v3"
)

// notifyResult reports an interaction's outcome the way the TUI would show
// it: the notifier's message, as an error when the interaction failed.
func (r *Runner) notifyResult(n *state.Notifier, fallback string) error {
	current := n.Current()
	if current == nil {
		return r.writePlain("✓ %s\n", fallback)
	}
	if current.Kind == models.NotifyError {
		return errors.New(current.Message)
	}
	if current.Kind == models.NotifyWarning {
		return r.writePlain("⚠ %s\n", current.Message)
	}
	return r.writePlain("✓ %s\n", current.Message)
}

// RateSet rates a book, creating or updating the rating as appropriate.
func (r *Runner) RateSet(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	bookID := cmd.StringArg("book-id")
	if bookID == "" {
		return fmt.Errorf("%w: a book id is required", shared.ErrMissingArgument)
	}

	stars := cmd.Int("stars")
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: stars must be between 1 and 5", shared.ErrInvalidRating)
	}

	notifier := state.NewNotifier(state.DefaultNotificationTTL)
	ratings := interactions.NewRatings(r.api, notifier)
	ratings.SetActor(session.UserID)

	// Seed from the server so a second rating counts as an update.
	if existing, err := r.api.UserRatings(ctx, session.UserID); err == nil {
		ratings.SeedFromRatings(existing)
	}

	book, err := r.api.BookDetails(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}

	call, op, start := ratings.Submit(services.RatingSubmission{
		BookID:      bookID,
		UserID:      session.UserID,
		Score:       int(stars),
		Review:      cmd.String("review"),
		BookTitle:   book.Title,
		DisplayName: session.DisplayName,
	})
	if !start {
		return r.notifyResult(notifier, "Nothing submitted")
	}

	_, _, callErr := call(ctx)
	ratings.Resolve(bookID, op, callErr)
	return r.notifyResult(notifier, "Rating saved")
}

// RateDelete removes the user's rating for a book.
func (r *Runner) RateDelete(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	bookID := cmd.StringArg("book-id")
	if bookID == "" {
		return fmt.Errorf("%w: a book id is required", shared.ErrMissingArgument)
	}

	notifier := state.NewNotifier(state.DefaultNotificationTTL)
	ratings := interactions.NewRatings(r.api, notifier)
	ratings.SetActor(session.UserID)

	if existing, err := r.api.UserRatings(ctx, session.UserID); err == nil {
		ratings.SeedFromRatings(existing)
	}

	call, op, start := ratings.Delete(bookID)
	if !start {
		return r.writePlain("You have not rated that book.\n")
	}

	_, _, callErr := call(ctx)
	ratings.Resolve(bookID, op, callErr)
	return r.notifyResult(notifier, "Rating removed")
}

// RateList lists the user's ratings, most recent first.
func (r *Runner) RateList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.requireSession()
	if err != nil {
		return err
	}

	ratings, err := r.api.UserRatings(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to fetch ratings: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(ratings, true)
	}

	if len(ratings) == 0 {
		return r.writePlain("You have not rated any books yet.\n")
	}
	for _, rating := range ratings {
		ratingLine(r, rating)
	}
	return nil
}

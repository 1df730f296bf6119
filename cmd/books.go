package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/urfave/cli/v3"
)

// BooksSearch queries the catalog.
func (r *Runner) BooksSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	books, err := r.api.SearchBooks(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}

	if len(books) == 0 {
		return r.writePlain("No books matched %q\n", query)
	}
	for _, book := range books {
		r.writePlain("%s  %s — %s\n", book.BookID, book.Title, book.Author)
	}
	return nil
}

// BooksDetails shows one book with its reviews and similar titles.
func (r *Runner) BooksDetails(ctx context.Context, cmd *cli.Command) error {
	bookID := cmd.StringArg("id")
	if bookID == "" {
		return fmt.Errorf("%w: a book id is required", shared.ErrMissingArgument)
	}

	book, err := r.api.BookDetails(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}
	reviews, err := r.api.BookReviews(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to fetch reviews: %w", err)
	}
	similar, err := r.api.SimilarBooks(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to fetch similar books: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"book": book, "reviews": reviews, "similar": similar}, true)
	}

	r.writePlain("%s — %s", book.Title, book.Author)
	if book.Year > 0 {
		r.writePlain(" (%d)", book.Year)
	}
	r.writePlain("\n")

	if len(reviews) > 0 {
		r.writePlainln("Reviews:")
		for _, review := range reviews {
			r.writePlain("  %s %s (%d likes)", renderStars(review.Score), review.DisplayName, len(review.LikedBy))
			if review.Review != "" {
				r.writePlain(": %s", review.Review)
			}
			r.writePlain("\n")
		}
	}

	if len(similar) > 0 {
		titles := make([]string, len(similar))
		for i, s := range similar {
			titles[i] = s.Title
		}
		r.writePlainln("Similar: %s", strings.Join(titles, ", "))
	}
	return nil
}

func renderStars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	return strings.Repeat("★", score) + strings.Repeat("☆", 5-score)
}

func ratingLine(r *Runner, rating models.Rating) {
	r.writePlain("%s  %s %s", rating.BookID, renderStars(rating.Score), rating.BookTitle)
	if rating.Review != "" {
		r.writePlain(" — %s", rating.Review)
	}
	r.writePlain("\n")
}

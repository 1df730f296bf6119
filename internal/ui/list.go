package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/bookmind/internal/models"
)

var (
	_ list.Item = bookItem{}
	_ list.Item = ratingItem{}
	_ list.Item = userItem{}
	_ list.Item = wishlistItem{}
)

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := i.book.Author
	if i.book.Year > 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.book.Year)
	}
	return desc
}

// ratingItem wraps [models.Rating] to implement [list.Item]. Like state comes
// through likeOf so optimistic toggles show without refetching.
type ratingItem struct {
	rating models.Rating
	likeOf func(ratingID string) models.LikeState
}

func (i ratingItem) FilterValue() string { return i.rating.BookTitle }
func (i ratingItem) Title() string {
	return fmt.Sprintf("%s %s", stars(i.rating.Score), i.rating.BookTitle)
}

func (i ratingItem) Description() string {
	like := models.LikeState{Count: len(i.rating.LikedBy)}
	if i.likeOf != nil {
		like = i.likeOf(i.rating.ID)
	}

	heart := "♡"
	if like.Liked {
		heart = "♥"
	}

	desc := fmt.Sprintf("%s %d", heart, like.Count)
	if i.rating.DisplayName != "" {
		desc = fmt.Sprintf("%s • %s", i.rating.DisplayName, desc)
	}
	if i.rating.Review != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.rating.Review)
	}
	return desc
}

// userItem wraps [models.UserSummary] to implement [list.Item].
type userItem struct {
	user models.UserSummary
}

func (i userItem) FilterValue() string { return i.user.Username }
func (i userItem) Title() string       { return i.user.Username }
func (i userItem) Description() string { return "view profile" }

// wishlistItem wraps [models.WishlistItem] to implement [list.Item].
type wishlistItem struct {
	item models.WishlistItem
}

func (i wishlistItem) FilterValue() string { return i.item.Title }
func (i wishlistItem) Title() string       { return i.item.Title }
func (i wishlistItem) Description() string { return "on your wishlist" }

func stars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	return strings.Repeat("★", score) + strings.Repeat("☆", 5-score)
}

func newList(title string, items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetSize(width-4, height-8)
	return l
}

package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/router"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/state"
)

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.store.Login(m.ctx, email, password)
		return loggedInMsg{session: session, err: err}
	}
}

func (m *Model) register(email, password, displayName string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Register(m.ctx, email, password, displayName)
		return registeredMsg{email: email, err: err}
	}
}

func (m *Model) loadHome() tea.Cmd {
	session := m.store.Current()
	if session == nil {
		return nil
	}
	userID := session.UserID

	return func() tea.Msg {
		recs, err := m.api.Recommendations(m.ctx, userID)
		if err != nil {
			return homeLoadedMsg{err: err}
		}
		ratings, err := m.api.UserRatings(m.ctx, userID)
		return homeLoadedMsg{recs: recs, ratings: ratings, err: err}
	}
}

func (m *Model) loadRecommendations() tea.Cmd {
	session := m.store.Current()
	if session == nil {
		return nil
	}
	userID := session.UserID

	return func() tea.Msg {
		recs, err := m.api.Recommendations(m.ctx, userID)
		return recsLoadedMsg{recs: recs, err: err}
	}
}

func (m *Model) searchBooksCmd(query string) tea.Cmd {
	return func() tea.Msg {
		books, err := m.api.SearchBooks(m.ctx, query)
		return bookSearchMsg{query: query, books: books, err: err}
	}
}

func (m *Model) searchUsersCmd(query string) tea.Cmd {
	return func() tea.Msg {
		users, err := m.api.SearchUsers(m.ctx, query)
		return userSearchMsg{query: query, users: users, err: err}
	}
}

// openBook navigates to a book and starts its fetch. The previous view is
// remembered for esc.
func (m *Model) openBook(bookID string) tea.Cmd {
	if m.router.Active() != router.BookDetailView {
		m.prevView = m.router.Active()
	}
	if !m.router.NavigateToBook(bookID) {
		return nil
	}
	m.book = nil
	return m.loadBook(bookID)
}

func (m *Model) loadBook(bookID string) tea.Cmd {
	session := m.store.Current()
	if session == nil {
		return nil
	}
	userID := session.UserID

	return func() tea.Msg {
		book, err := m.api.BookDetails(m.ctx, bookID)
		if err != nil {
			return bookLoadedMsg{bookID: bookID, err: err}
		}
		reviews, err := m.api.BookReviews(m.ctx, bookID)
		if err != nil {
			return bookLoadedMsg{bookID: bookID, err: err}
		}
		similar, err := m.api.SimilarBooks(m.ctx, bookID)
		if err != nil {
			return bookLoadedMsg{bookID: bookID, err: err}
		}
		inWishlist, err := m.api.WishlistStatus(m.ctx, bookID, userID)
		return bookLoadedMsg{
			bookID:     bookID,
			book:       book,
			reviews:    reviews,
			similar:    similar,
			inWishlist: inWishlist,
			err:        err,
		}
	}
}

func (m *Model) loadFeed() tea.Cmd {
	return func() tea.Msg {
		ratings, err := m.api.RecentRatings(m.ctx)
		return feedLoadedMsg{ratings: ratings, err: err}
	}
}

// openUser navigates to a reader's profile, landing on the own-profile view
// when the target is the signed-in user.
func (m *Model) openUser(userID string) tea.Cmd {
	if active := m.router.Active(); active != router.ProfileView && active != router.PublicProfileView {
		m.prevView = active
	}
	if !m.router.NavigateToUser(userID) {
		return nil
	}
	m.profile = nil
	return m.loadProfile(userID)
}

func (m *Model) loadProfile(userID string) tea.Cmd {
	session := m.store.Current()
	if session == nil {
		return nil
	}
	self := session.UserID == userID
	selfID := session.UserID

	return func() tea.Msg {
		profile, err := m.api.UserProfile(m.ctx, userID)
		if err != nil {
			return profileLoadedMsg{userID: userID, err: err}
		}
		ratings, err := m.api.UserRatings(m.ctx, userID)
		if err != nil {
			return profileLoadedMsg{userID: userID, err: err}
		}

		msg := profileLoadedMsg{userID: userID, profile: profile, ratings: ratings}
		if self {
			msg.wishlist, msg.err = m.api.UserWishlist(m.ctx, userID)
		} else {
			msg.following, msg.err = m.api.IsFollowing(m.ctx, selfID, userID)
		}
		return msg
	}
}

func (m *Model) toggleLike(ratingID string) tea.Cmd {
	call, start := m.likes.Toggle(ratingID)
	if !start {
		return nil
	}
	return m.issueLike(ratingID, call)
}

func (m *Model) issueRating(bookID string, op state.Op, call state.Call[models.RatingState]) tea.Cmd {
	return func() tea.Msg {
		_, _, err := call(m.ctx)
		return ratingResolvedMsg{bookID: bookID, op: op, err: err}
	}
}

func (m *Model) issueLike(ratingID string, call state.Call[models.LikeState]) tea.Cmd {
	return func() tea.Msg {
		_, _, err := call(m.ctx)
		return likeResolvedMsg{ratingID: ratingID, err: err}
	}
}

func (m *Model) issueWishlist(toggle services.WishlistToggle, call state.Call[models.WishlistState]) tea.Cmd {
	return func() tea.Msg {
		value, canonical, err := call(m.ctx)
		return wishlistResolvedMsg{toggle: toggle, value: value, canonical: canonical, err: err}
	}
}

func (m *Model) issueFollow(targetID, displayName string, call state.Call[models.FollowState]) tea.Cmd {
	return func() tea.Msg {
		_, _, err := call(m.ctx)
		return followResolvedMsg{targetID: targetID, displayName: displayName, err: err}
	}
}

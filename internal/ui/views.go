package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/bookmind/internal/router"
)

// View renders the UI based on the router's active view.
func (m *Model) View() string {
	var body string
	switch m.router.Active() {
	case router.AuthView:
		body = m.authForm.view()
	case router.HomeView:
		body = m.renderHome()
	case router.CommunityView:
		body = m.renderCommunity()
	case router.BookDetailView:
		body = m.renderBook()
	case router.ProfileView:
		body = m.renderProfile(true)
	case router.PublicProfileView:
		body = m.renderProfile(false)
	}

	if m.ratingForm != nil {
		body = m.ratingForm.view()
	}

	return m.renderBanner() + body
}

// renderBanner shows the single visible notification, if any.
func (m *Model) renderBanner() string {
	current := m.notifier.Current()
	if current == nil {
		return ""
	}
	return styles.kind(current.Kind).Render(current.Message) + "\n\n"
}

func (m *Model) renderHome() string {
	var out string
	if m.searching {
		out += m.searchInput.View() + "\n\n"
	}

	if m.hasResults {
		out += m.resultsList.View()
	} else {
		out += m.recsList.View()
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.enter, m.keys.feed, m.keys.profile, m.keys.quit}
	return out + "\n\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderCommunity() string {
	var out string
	if m.searching {
		out += m.searchInput.View() + "\n\n"
	}

	if m.hasUsers {
		out += m.userList.View()
	} else {
		out += m.feedList.View()
	}

	helpKeys := []key.Binding{m.keys.like, m.keys.enter, m.keys.users, m.keys.home, m.keys.quit}
	return out + "\n\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderBook() string {
	if m.book == nil {
		return styles.faint.Render("Loading...")
	}

	title := styles.title.Render(m.book.Title)
	info := m.book.Author
	if m.book.Year > 0 {
		info = fmt.Sprintf("%s • %d", info, m.book.Year)
	}
	if m.book.Publisher != "" {
		info = fmt.Sprintf("%s • %s", info, m.book.Publisher)
	}

	var mine string
	if st, ok := m.ratings.Existing(m.book.BookID); ok {
		mine = "Your rating: " + stars(st.Score)
		if m.ratings.Pending(m.book.BookID) {
			mine += styles.faint.Render(" (saving)")
		}
	} else {
		mine = styles.faint.Render("You have not rated this book.")
	}

	var wish string
	if m.wishlist.State(m.book.BookID).In {
		wish = styles.ok.Render("✓ on your wishlist")
	}

	var similar string
	if len(m.similar) > 0 {
		similar = "\nSimilar: "
		for i, b := range m.similar {
			if i > 0 {
				similar += ", "
			}
			similar += b.Title
		}
	}

	helpKeys := []key.Binding{m.keys.rate, m.keys.remove, m.keys.wishlist, m.keys.like, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s\n%s%s\n\n%s\n\n%s",
		title, info, mine, wish, similar, m.reviews.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderProfile(self bool) string {
	if m.profile == nil {
		return styles.faint.Render("Loading...")
	}

	title := styles.title.Render(m.profile.Username)
	counts := fmt.Sprintf("%d followers • %d following", m.profile.FollowersCount, m.profile.FollowingCount)

	var follow string
	if !self {
		if m.follow.State(m.profile.UserID).Following {
			follow = "\n" + styles.ok.Render("✓ following")
		} else {
			follow = "\n" + styles.faint.Render("press f to follow")
		}
	}

	var wishlist string
	if self && len(m.wishItems) > 0 {
		wishlist = fmt.Sprintf("\nWishlist: %d books", len(m.wishItems))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.home, m.keys.quit}
	if self {
		helpKeys = append([]key.Binding{m.keys.remove}, helpKeys...)
	} else {
		helpKeys = append([]key.Binding{m.keys.follow}, helpKeys...)
	}

	return fmt.Sprintf("%s\n%s%s%s\n\n%s\n\n%s",
		title, counts, follow, wishlist, m.profileList.View(), m.help.ShortHelpView(helpKeys))
}

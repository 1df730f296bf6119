package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/bookmind/internal/interactions"
	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/router"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/session"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/desertthunder/bookmind/internal/state"
)

// tickInterval paces idle checks and notification repaints.
const tickInterval = 500 * time.Millisecond

type searchKind int

const (
	searchBooks searchKind = iota
	searchUsers
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	api      services.Service
	store    *session.Store
	router   *router.Router
	notifier *state.Notifier

	ratings  *interactions.Ratings
	likes    *interactions.Likes
	wishlist *interactions.Wishlist
	follow   *interactions.Follow

	width  int
	height int
	help   help.Model
	keys   keyMap

	authForm   authForm
	ratingForm *ratingForm

	searchInput textinput.Model
	searching   bool
	searchFor   searchKind

	recsList    list.Model
	resultsList list.Model
	hasResults  bool
	feedList    list.Model
	userList    list.Model
	hasUsers    bool
	profileList list.Model

	book      *models.Book
	reviews   list.Model
	similar   []models.Book
	profile   *models.UserProfile
	wishItems []models.WishlistItem

	// prevView is where esc returns to from a book or public profile.
	prevView router.View
}

// ModelOpts contains the dependencies for creating a [Model].
type ModelOpts struct {
	Ctx      context.Context
	API      services.Service
	Store    *session.Store
	Router   *router.Router
	Notifier *state.Notifier
	Cache    interactions.WishlistCache
}

// NewModel creates a new TUI model. When the store already holds a restored
// session the model starts on the home view.
func NewModel(opts ModelOpts) *Model {
	search := textinput.New()
	search.Placeholder = "search"

	m := &Model{
		ctx:         opts.Ctx,
		api:         opts.API,
		store:       opts.Store,
		router:      opts.Router,
		notifier:    opts.Notifier,
		ratings:     interactions.NewRatings(opts.API, opts.Notifier),
		likes:       interactions.NewLikes(opts.API, opts.Notifier),
		wishlist:    interactions.NewWishlist(interactions.WishlistOpts{API: opts.API, Notifier: opts.Notifier, Cache: opts.Cache}),
		follow:      interactions.NewFollow(opts.API, opts.Notifier),
		help:        help.New(),
		keys:        newKeyMap(),
		authForm:    newAuthForm(),
		searchInput: search,
		prevView:    router.HomeView,
	}

	if s := opts.Store.Current(); s != nil {
		m.setActor(s.UserID)
		m.router.Navigate(router.HomeView, router.Params{})
	}
	return m
}

// Init starts the tick loop and, when already signed in, loads the home view.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.store.Current() != nil {
		cmds = append(cmds, m.loadHome())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range m.lists() {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tickMsg:
		return m.handleTick()

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case loggedInMsg:
		return m.handleLoggedIn(msg)

	case registeredMsg:
		m.authForm.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, shared.ErrDuplicateUser) {
				m.notifier.Error("An account with that email already exists.")
			} else {
				m.notifier.Error("Could not create the account. Please try again.")
			}
			return m, nil
		}
		m.notifier.Success("Account created. Sign in with your new credentials.")
		m.authForm.mode = modeLogin
		m.authForm.reset()
		return m, nil

	case homeLoadedMsg:
		if msg.err != nil {
			m.notifier.Error("Could not load recommendations.")
			return m, nil
		}
		m.ratings.SeedFromRatings(msg.ratings)
		m.recsList = newList("Recommended for you", bookItems(msg.recs), m.width, m.height)
		return m, nil

	case recsLoadedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.recsList = newList("Recommended for you", bookItems(msg.recs), m.width, m.height)
		return m, nil

	case bookSearchMsg:
		if msg.err != nil {
			m.notifier.Error("Search failed. Please try again.")
			return m, nil
		}
		m.hasResults = true
		m.resultsList = newList("Results for \""+msg.query+"\"", bookItems(msg.books), m.width, m.height)
		return m, nil

	case userSearchMsg:
		if msg.err != nil {
			m.notifier.Error("Search failed. Please try again.")
			return m, nil
		}
		m.hasUsers = true
		items := make([]list.Item, len(msg.users))
		for i, u := range msg.users {
			items[i] = userItem{user: u}
		}
		m.userList = newList("Readers matching \""+msg.query+"\"", items, m.width, m.height)
		return m, nil

	case bookLoadedMsg:
		return m.handleBookLoaded(msg)

	case feedLoadedMsg:
		if msg.err != nil {
			m.notifier.Error("Could not load the community feed.")
			return m, nil
		}
		m.likes.SeedFromRatings(msg.ratings)
		m.feedList = newList("Recent ratings", m.ratingItems(msg.ratings), m.width, m.height)
		return m, nil

	case profileLoadedMsg:
		return m.handleProfileLoaded(msg)

	case ratingResolvedMsg:
		next, nextOp, refetch := m.ratings.Resolve(msg.bookID, msg.op, msg.err)
		var cmds []tea.Cmd
		if next != nil {
			cmds = append(cmds, m.issueRating(msg.bookID, nextOp, next))
		}
		if refetch {
			cmds = append(cmds, m.loadRecommendations())
		}
		return m, tea.Batch(cmds...)

	case likeResolvedMsg:
		if next, more := m.likes.Resolve(msg.ratingID, msg.err); more {
			return m, m.issueLike(msg.ratingID, next)
		}
		return m, nil

	case wishlistResolvedMsg:
		if next, more := m.wishlist.Resolve(msg.toggle, msg.value, msg.canonical, msg.err); more {
			return m, m.issueWishlist(msg.toggle, next)
		}
		return m, nil

	case followResolvedMsg:
		next, more, refetch := m.follow.Resolve(msg.targetID, msg.displayName, msg.err)
		if more {
			return m, m.issueFollow(msg.targetID, msg.displayName, next)
		}
		if refetch && m.router.IsActiveUser(msg.targetID) {
			return m, m.loadProfile(msg.targetID)
		}
		return m, nil
	}

	return m, m.updateActiveList(msg)
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.store.CheckIdle() {
		m.resetToAuth()
		m.notifier.Warn("You were signed out after 30 minutes of inactivity.")
	}
	return m, m.tick()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.store.RecordActivity()

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.router.Active() == router.AuthView {
		return m.handleAuthKeys(msg)
	}
	if m.ratingForm != nil {
		return m.handleRatingFormKeys(msg)
	}
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	return m.handleViewKeys(msg)
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.authForm.next()
		return m, nil
	case "shift+tab":
		m.authForm.prev()
		return m, nil
	case "ctrl+t":
		m.authForm.toggleMode()
		return m, nil
	case "enter":
		if m.authForm.submitting {
			return m, nil
		}
		m.authForm.submitting = true
		if m.authForm.mode == modeLogin {
			return m, m.login(m.authForm.email(), m.authForm.password())
		}
		return m, m.register(m.authForm.email(), m.authForm.password(), m.authForm.displayName())
	}

	return m, m.authForm.update(msg)
}

func (m *Model) handleRatingFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.ratingForm
	switch msg.String() {
	case "esc":
		m.ratingForm = nil
		return m, nil
	case "1", "2", "3", "4", "5":
		form.score = int(msg.String()[0] - '0')
		return m, nil
	case "enter":
		sub := services.RatingSubmission{
			BookID:    form.bookID,
			BookTitle: form.title,
			Score:     form.score,
			Review:    form.review.Value(),
		}
		if s := m.store.Current(); s != nil {
			sub.UserID = s.UserID
			sub.DisplayName = s.DisplayName
		}

		call, op, start := m.ratings.Submit(sub)
		if !start {
			// Rejected (zero stars) or queued behind an earlier submit.
			if call == nil && op == state.OpNone && m.ratings.Pending(form.bookID) {
				m.ratingForm = nil
			}
			return m, nil
		}
		m.ratingForm = nil
		return m, m.issueRating(form.bookID, op, call)
	}

	return m, form.update(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		query := m.searchInput.Value()
		m.searching = false
		m.searchInput.Blur()
		if query == "" {
			return m, nil
		}
		if m.searchFor == searchUsers {
			return m, m.searchUsersCmd(query)
		}
		return m, m.searchBooksCmd(query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "ctrl+l":
		m.store.Logout()
		m.resetToAuth()
		m.notifier.Success("Signed out.")
		return m, nil
	case "/":
		m.searching = true
		m.searchFor = searchBooks
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, nil
	case "u":
		m.searching = true
		m.searchFor = searchUsers
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, nil
	case "h":
		m.router.Navigate(router.HomeView, router.Params{})
		return m, m.loadHome()
	case "c":
		m.router.Navigate(router.CommunityView, router.Params{})
		return m, m.loadFeed()
	case "p":
		if s := m.store.Current(); s != nil {
			m.router.NavigateToUser(s.UserID)
			return m, m.loadProfile(s.UserID)
		}
		return m, nil
	case "esc":
		return m.handleBack()
	}

	switch m.router.Active() {
	case router.HomeView:
		return m.handleHomeKeys(msg)
	case router.CommunityView:
		return m.handleCommunityKeys(msg)
	case router.BookDetailView:
		return m.handleBookKeys(msg)
	case router.ProfileView, router.PublicProfileView:
		return m.handleProfileKeys(msg)
	}
	return m, nil
}

func (m *Model) handleBack() (tea.Model, tea.Cmd) {
	switch m.router.Active() {
	case router.BookDetailView, router.PublicProfileView:
		view := m.prevView
		m.prevView = router.HomeView
		m.router.Navigate(view, router.Params{})
		return m, nil
	case router.HomeView:
		if m.hasResults {
			m.hasResults = false
		}
		return m, nil
	}
	m.router.Navigate(router.HomeView, router.Params{})
	return m, nil
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := &m.recsList
	if m.hasResults {
		active = &m.resultsList
	}

	if msg.String() == "enter" {
		if item, ok := active.SelectedItem().(bookItem); ok {
			return m, m.openBook(item.book.BookID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	*active, cmd = active.Update(msg)
	return m, cmd
}

func (m *Model) handleCommunityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.hasUsers {
		if msg.String() == "enter" {
			if item, ok := m.userList.SelectedItem().(userItem); ok {
				m.hasUsers = false
				return m, m.openUser(item.user.UserID)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.userList, cmd = m.userList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if item, ok := m.feedList.SelectedItem().(ratingItem); ok {
			return m, m.openBook(item.rating.BookID)
		}
		return m, nil
	case "l":
		if item, ok := m.feedList.SelectedItem().(ratingItem); ok {
			return m, m.toggleLike(item.rating.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.feedList, cmd = m.feedList.Update(msg)
	return m, cmd
}

func (m *Model) handleBookKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.book == nil {
		return m, nil
	}

	switch msg.String() {
	case "r":
		st, _ := m.ratings.Existing(m.book.BookID)
		m.ratingForm = newRatingForm(m.book.BookID, m.book.Title, st.Score, st.Review)
		return m, nil
	case "x":
		call, op, start := m.ratings.Delete(m.book.BookID)
		if !start {
			return m, nil
		}
		return m, m.issueRating(m.book.BookID, op, call)
	case "w":
		toggle := services.WishlistToggle{BookID: m.book.BookID, Title: m.book.Title, ImageURL: m.book.ImageURL}
		call, start := m.wishlist.Toggle(toggle)
		if !start {
			return m, nil
		}
		return m, m.issueWishlist(toggle, call)
	case "l":
		if item, ok := m.reviews.SelectedItem().(ratingItem); ok {
			return m, m.toggleLike(item.rating.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.reviews, cmd = m.reviews.Update(msg)
	return m, cmd
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item, ok := m.profileList.SelectedItem().(ratingItem); ok {
			return m, m.openBook(item.rating.BookID)
		}
		return m, nil
	case "x":
		if m.router.Active() != router.ProfileView {
			return m, nil
		}
		if item, ok := m.profileList.SelectedItem().(ratingItem); ok {
			call, op, start := m.ratings.Delete(item.rating.BookID)
			if start {
				return m, m.issueRating(item.rating.BookID, op, call)
			}
		}
		return m, nil
	case "f":
		if m.router.Active() != router.PublicProfileView || m.profile == nil {
			return m, nil
		}
		call, start := m.follow.Toggle(m.profile.UserID)
		if !start {
			return m, nil
		}
		return m, m.issueFollow(m.profile.UserID, m.profile.Username, call)
	case "l":
		if item, ok := m.profileList.SelectedItem().(ratingItem); ok {
			return m, m.toggleLike(item.rating.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.profileList, cmd = m.profileList.Update(msg)
	return m, cmd
}

func (m *Model) handleLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	m.authForm.submitting = false
	if msg.err != nil {
		m.authForm.reset()
		if errors.Is(msg.err, shared.ErrAuthFailed) {
			m.notifier.Error("Invalid email or password.")
		} else {
			m.notifier.Error("Could not reach BookMind. Please try again.")
		}
		return m, nil
	}

	m.setActor(msg.session.UserID)
	m.router.Navigate(router.HomeView, router.Params{})
	m.notifier.Success("Welcome back, " + msg.session.Username + "!")
	return m, m.loadHome()
}

func (m *Model) handleBookLoaded(msg bookLoadedMsg) (tea.Model, tea.Cmd) {
	// The user may have navigated away while the fetch was in flight.
	if !m.router.IsActiveBook(msg.bookID) {
		return m, nil
	}
	if msg.err != nil {
		m.notifier.Error("Could not load the book.")
		m.router.Navigate(m.prevView, router.Params{})
		return m, nil
	}

	m.book = msg.book
	m.similar = msg.similar
	m.likes.SeedFromRatings(msg.reviews)
	m.wishlist.Seed(msg.bookID, msg.inWishlist)
	if s := m.store.Current(); s != nil {
		for _, review := range msg.reviews {
			if review.UserID == s.UserID {
				m.ratings.Seed(msg.bookID, models.RatingState{Score: review.Score, Review: review.Review})
			}
		}
	}
	m.reviews = newList("Reviews", m.ratingItems(msg.reviews), m.width, m.height)
	return m, nil
}

func (m *Model) handleProfileLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	self := m.store.Current() != nil && m.store.Current().UserID == msg.userID
	if self {
		if m.router.Active() != router.ProfileView {
			return m, nil
		}
	} else if !m.router.IsActiveUser(msg.userID) {
		return m, nil
	}

	if msg.err != nil {
		m.notifier.Error("Could not load the profile.")
		return m, nil
	}

	m.profile = msg.profile
	m.wishItems = msg.wishlist
	if self {
		m.store.RefreshCounts(msg.profile)
		m.ratings.SeedFromRatings(msg.ratings)
	} else {
		m.follow.Seed(msg.userID, msg.following)
	}
	m.likes.SeedFromRatings(msg.ratings)

	title := "Your ratings"
	if !self {
		title = msg.profile.Username + "'s ratings"
	}
	m.profileList = newList(title, m.ratingItems(msg.ratings), m.width, m.height)
	return m, nil
}

// setActor points every controller at the signed-in user.
func (m *Model) setActor(userID string) {
	m.ratings.SetActor(userID)
	m.likes.SetActor(userID)
	m.wishlist.SetActor(userID)
	m.follow.SetActor(userID)
}

// resetToAuth drops all per-user view state and returns to the auth view.
func (m *Model) resetToAuth() {
	m.setActor("")
	m.router.Reset()
	m.authForm = newAuthForm()
	m.ratingForm = nil
	m.searching = false
	m.hasResults = false
	m.hasUsers = false
	m.book = nil
	m.profile = nil
	m.wishItems = nil
	m.similar = nil
}

func (m *Model) lists() []*list.Model {
	return []*list.Model{&m.recsList, &m.resultsList, &m.feedList, &m.userList, &m.profileList, &m.reviews}
}

func (m *Model) updateActiveList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.router.Active() {
	case router.HomeView:
		if m.hasResults {
			m.resultsList, cmd = m.resultsList.Update(msg)
		} else {
			m.recsList, cmd = m.recsList.Update(msg)
		}
	case router.CommunityView:
		m.feedList, cmd = m.feedList.Update(msg)
	case router.BookDetailView:
		m.reviews, cmd = m.reviews.Update(msg)
	case router.ProfileView, router.PublicProfileView:
		m.profileList, cmd = m.profileList.Update(msg)
	}
	return cmd
}

func (m *Model) ratingItems(ratings []models.Rating) []list.Item {
	items := make([]list.Item, len(ratings))
	for i, r := range ratings {
		items[i] = ratingItem{rating: r, likeOf: m.likes.State}
	}
	return items
}

func bookItems(books []models.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}

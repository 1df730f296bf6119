// Package session implements the session store: the single authority on who
// is logged in and for how long.
//
// The store owns the Session lifecycle (login, registration hand-off, idle
// timeout, explicit logout and shutdown teardown) and is the only component
// that mutates the Session. The persisted copy in the local database is the
// sole source of truth for "is a user logged in" across restarts.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/shared"
)

// DefaultIdleLimit is how long a session survives without qualifying user
// activity.
const DefaultIdleLimit = 30 * time.Minute

// activityPersistInterval throttles how often activity refreshes are written
// through to the database. Activity events fire on every keypress; the
// persisted timestamp only needs coarse resolution against a 30 minute limit.
const activityPersistInterval = 30 * time.Second

// Repository persists the session across process restarts. Absence of a
// stored session is reported as (nil, nil).
type Repository interface {
	Save(session *models.Session) error
	Load() (*models.Session, error)
	Clear() error
}

// Store owns the active [models.Session] and its idle lifecycle.
type Store struct {
	api         services.Service
	repo        Repository
	logger      *log.Logger
	idleLimit   time.Duration
	current     *models.Session
	now         func() time.Time
	lastPersist time.Time
}

// StoreOpts contains configuration options for creating a [Store].
type StoreOpts struct {
	API       services.Service
	Repo      Repository
	Logger    *log.Logger
	IdleLimit time.Duration
}

// NewStore creates a session store. IdleLimit defaults to [DefaultIdleLimit].
func NewStore(opts StoreOpts) *Store {
	if opts.IdleLimit <= 0 {
		opts.IdleLimit = DefaultIdleLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Store{
		api:       opts.API,
		repo:      opts.Repo,
		logger:    opts.Logger,
		idleLimit: opts.IdleLimit,
		now:       time.Now,
	}
}

// SetClock overrides the store's time source. Used by tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Current returns the active session, nil when anonymous.
func (s *Store) Current() *models.Session { return s.current }

// IdleLimit returns the configured idle timeout.
func (s *Store) IdleLimit() time.Duration { return s.idleLimit }

// Deadline returns when the session will expire absent further activity.
// The zero time is returned when anonymous.
func (s *Store) Deadline() time.Time {
	if s.current == nil {
		return time.Time{}
	}
	return s.current.LastActivityAt.Add(s.idleLimit)
}

// Restore loads a persisted session on process start. The caller is expected
// to invoke [Store.CheckIdle] afterwards; a session that idled out while the
// process was down is discarded there, not here.
func (s *Store) Restore() error {
	if s.repo == nil {
		return nil
	}

	session, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load persisted session: %w", err)
	}
	if session == nil {
		return nil
	}

	s.current = session
	s.installToken(session.Token)
	s.logger.Debug("restored session", "user", session.Username)
	return nil
}

// Login exchanges credentials for an authenticated session, persists it and
// starts the idle clock. On failure the store is left unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Session, error) {
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session.LastActivityAt = s.now()
	s.current = session
	s.persist()

	s.logger.Info("logged in", "user", session.Username)
	return session, nil
}

// Register creates an account. Never establishes a session; the caller
// switches to the login form on success.
func (s *Store) Register(ctx context.Context, email, password, displayName string) error {
	return s.api.Register(ctx, email, password, displayName)
}

// Logout clears the active and persisted session. Idempotent; calling it with
// no active session is a no-op.
func (s *Store) Logout() {
	if s.current == nil {
		return
	}

	username := s.current.Username
	s.current = nil
	s.lastPersist = time.Time{}

	if s.repo != nil {
		if err := s.repo.Clear(); err != nil {
			s.logger.Warn("failed to clear persisted session", "error", err)
		}
	}

	s.logger.Info("logged out", "user", username)
}

// RecordActivity refreshes the idle deadline on qualifying user input. The
// write-through to the database is throttled.
func (s *Store) RecordActivity() {
	if s.current == nil {
		return
	}

	now := s.now()
	s.current.LastActivityAt = now

	if now.Sub(s.lastPersist) >= activityPersistInterval {
		s.persist()
	}
}

// CheckIdle logs out when the idle limit has elapsed since the last activity.
// Invoked on process start and on a timer. Returns whether the session
// expired; the transition fires at most once because logout leaves the store
// anonymous.
func (s *Store) CheckIdle() bool {
	if s.current == nil {
		return false
	}

	if s.now().Sub(s.current.LastActivityAt) > s.idleLimit {
		s.logger.Info("session idle limit reached", "user", s.current.Username)
		s.Logout()
		return true
	}
	return false
}

// RefreshCounts updates the session's follow counts from a freshly fetched
// profile.
func (s *Store) RefreshCounts(profile *models.UserProfile) {
	if s.current == nil || profile == nil || profile.UserID != s.current.UserID {
		return
	}

	s.current.FollowersCount = profile.FollowersCount
	s.current.FollowingCount = profile.FollowingCount
	s.persist()
}

// Teardown is the shutdown transition: fire-and-forget cleanup of persisted
// state. Errors are ignored; nothing blocks process exit.
func (s *Store) Teardown() {
	s.current = nil
	if s.repo != nil {
		_ = s.repo.Clear()
	}
}

func (s *Store) persist() {
	if s.repo == nil || s.current == nil {
		return
	}

	if err := s.repo.Save(s.current); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
		return
	}
	s.lastPersist = s.now()
}

// installToken hands a restored token to the API client when it accepts one.
func (s *Store) installToken(token string) {
	type tokenSetter interface{ SetToken(string) }
	if setter, ok := s.api.(tokenSetter); ok {
		setter.SetToken(token)
	}
}

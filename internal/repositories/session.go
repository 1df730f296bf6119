package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/bookmind/internal/models"
)

// SessionRepository persists the active session as a single row. The table's
// CHECK (id = 1) constraint guarantees at most one session exists.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save upserts the session row.
func (r *SessionRepository) Save(session *models.Session) error {
	query := `
		INSERT INTO session (id, user_id, username, email, display_name, token, followers_count, following_count, last_activity_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email,
			display_name = excluded.display_name,
			token = excluded.token,
			followers_count = excluded.followers_count,
			following_count = excluded.following_count,
			last_activity_at = excluded.last_activity_at
	`

	_, err := r.db.Exec(query,
		session.UserID, session.Username, session.Email, session.DisplayName,
		session.Token, session.FollowersCount, session.FollowingCount,
		session.LastActivityAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load returns the persisted session, or nil when none exists.
func (r *SessionRepository) Load() (*models.Session, error) {
	query := `
		SELECT user_id, username, email, display_name, token, followers_count, following_count, last_activity_at
		FROM session
		WHERE id = 1
	`

	var (
		session        models.Session
		lastActivityAt string
	)

	err := r.db.QueryRow(query).Scan(
		&session.UserID, &session.Username, &session.Email, &session.DisplayName,
		&session.Token, &session.FollowersCount, &session.FollowingCount, &lastActivityAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session.LastActivityAt, err = time.Parse(time.RFC3339Nano, lastActivityAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last activity time: %w", err)
	}

	return &session, nil
}

// Clear deletes the persisted session. A no-op when none exists.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

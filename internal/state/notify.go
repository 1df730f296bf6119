package state

import (
	"time"

	"github.com/desertthunder/bookmind/internal/models"
)

// DefaultNotificationTTL is how long a notification stays visible before
// self-destructing.
const DefaultNotificationTTL = 3500 * time.Millisecond

// Notifier owns the single visible [models.Notification]. A new notification
// preempts whatever is currently shown.
type Notifier struct {
	ttl     time.Duration
	current *models.Notification
	now     func() time.Time
}

// NewNotifier creates a Notifier with the given time-to-live per notification.
// A non-positive ttl falls back to [DefaultNotificationTTL].
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// SetClock overrides the notifier's time source. Used by tests.
func (n *Notifier) SetClock(now func() time.Time) { n.now = now }

// Notify replaces the current notification.
func (n *Notifier) Notify(message string, kind models.NotificationKind) {
	n.current = &models.Notification{
		Message:   message,
		Kind:      kind,
		ExpiresAt: n.now().Add(n.ttl),
	}
}

// Success raises a success notification.
func (n *Notifier) Success(message string) { n.Notify(message, models.NotifySuccess) }

// Error raises an error notification.
func (n *Notifier) Error(message string) { n.Notify(message, models.NotifyError) }

// Warn raises a warning notification.
func (n *Notifier) Warn(message string) { n.Notify(message, models.NotifyWarning) }

// Current returns the visible notification, or nil when none is active or the
// active one has expired.
func (n *Notifier) Current() *models.Notification {
	if n.current == nil || n.current.Expired(n.now()) {
		return nil
	}
	return n.current
}

// Expire clears the notification if its deadline has passed. Returns whether
// anything was cleared.
func (n *Notifier) Expire() bool {
	if n.current != nil && n.current.Expired(n.now()) {
		n.current = nil
		return true
	}
	return false
}

// Clear dismisses the notification unconditionally.
func (n *Notifier) Clear() { n.current = nil }

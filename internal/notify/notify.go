// Package notify sends best-effort desktop notifications. It uses native
// mechanisms on macOS (osascript) and Linux (notify-send).
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// sendTimeout bounds how long a notification helper may run.
const sendTimeout = 5 * time.Second

// Notifier sends desktop notifications.
type Notifier interface {
	// Send shows a notification, with sound when the platform can.
	Send(ctx context.Context, title, message string, sound bool) error

	// IsSupported returns true if notifications work on this platform.
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, string, bool) error { return nil }

func (noopNotifier) IsSupported() bool { return false }

// Noop returns a notifier that does nothing.
func Noop() Notifier {
	return noopNotifier{}
}

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Announcer wraps a Notifier with the user's preferences. Failures are
// logged and never returned.
type Announcer struct {
	n       Notifier
	enabled bool
	sound   bool
	log     *zap.Logger
}

// NewAnnouncer returns an Announcer. A nil notifier or logger is replaced
// with a no-op.
func NewAnnouncer(n Notifier, enabled, sound bool, log *zap.Logger) *Announcer {
	if n == nil {
		n = noopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Announcer{n: n, enabled: enabled, sound: sound, log: log}
}

// Enabled reports whether Announce will try to send anything.
func (a *Announcer) Enabled() bool {
	return a != nil && a.enabled && a.n.IsSupported()
}

// Announce sends a notification if enabled. It reports whether one was sent.
func (a *Announcer) Announce(ctx context.Context, title, message string) bool {
	if !a.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := a.n.Send(ctx, title, message, a.sound); err != nil {
		a.log.Warn("notification failed", zap.String("title", title), zap.Error(err))
		return false
	}
	a.log.Debug("notification sent", zap.String("title", title))
	return true
}

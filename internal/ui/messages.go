// Package ui provides the terminal widget for bitsy.
// This file defines message types for side effects that run outside the
// Bubble Tea event loop.
package ui

import "time"

// tickMsg is sent periodically for status expiry.
type tickMsg time.Time

// notifiedMsg is sent when a desktop notification attempt finishes.
type notifiedMsg struct {
	title string
	sent  bool
}

// Package ui provides the terminal widget for bitsy.
// This file contains tea.Cmd factories for work that must not block the
// event loop. Each command returns a message type defined in messages.go.
package ui

import (
	"context"
	"time"

	"bitsy/internal/notify"
	"bitsy/internal/render"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// announceCmd sends the cycle-complete notification. It returns nil when
// notifications are off so nothing is scheduled.
func announceCmd(an *notify.Announcer, c render.Celebration) tea.Cmd {
	if !an.Enabled() {
		return nil
	}
	return func() tea.Msg {
		sent := an.Announce(context.Background(), c.Title, c.Message)
		return notifiedMsg{title: c.Title, sent: sent}
	}
}

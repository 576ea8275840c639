// Package ui provides the terminal widget for bitsy.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching and help text generation.
package ui

import (
	"strings"

	"bitsy/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpLabel is the first key of a binding as shown in hints.
func helpLabel(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

func binding(custom, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpLabel(keys), desc),
	)
}

// =============================================================================
// Widget Keys
// =============================================================================

// KeyMap defines the keys of the habit grid.
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Prev     key.Binding
	Next     key.Binding
	Advance  key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Reset    key.Binding
	Progress key.Binding
	Theme    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(&config.KeysConfig{})
}

// NewKeyMap creates key bindings from config.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return KeyMap{
		Quit:     binding(cfg.Quit, "quit", "q", "ctrl+c"),
		Help:     binding(cfg.Help, "help", "?"),
		Prev:     binding(cfg.Prev, "previous habit", "h", "left"),
		Next:     binding(cfg.Next, "next habit", "l", "right"),
		Advance:  binding(cfg.Advance, "complete today", " ", "enter"),
		Add:      binding(cfg.Add, "add habit", "a"),
		Edit:     binding(cfg.Edit, "edit habit", "e"),
		Delete:   binding(cfg.Delete, "delete habit", "x"),
		Reset:    binding(cfg.Reset, "restart cycle", "r"),
		Progress: binding(cfg.Progress, "toggle progress", "p"),
		Theme:    binding(cfg.Theme, "toggle theme", "t"),
	}
}

// ShortHelp returns the bindings shown in the help bar (implements help.KeyMap).
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Add, k.Edit, k.Delete, k.Prev, k.Next, k.Help}
}

// FullHelp returns the grouped bindings of the help overlay (implements help.KeyMap).
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.Reset, k.Progress},
		{k.Add, k.Edit, k.Delete},
		{k.Prev, k.Next},
		{k.Theme, k.Help, k.Quit},
	}
}

// =============================================================================
// Input Keys (create/edit form)
// =============================================================================

// InputKeyMap defines keys for the habit form.
type InputKeyMap struct {
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	ColorPrev key.Binding
	ColorNext key.Binding
	Toggle    key.Binding
}

// DefaultInputKeyMap returns the default form key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates form key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: binding(cfg.Confirm, "save", "enter"),
		Cancel:  binding(cfg.Cancel, "cancel", "esc"),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		ColorPrev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous color"),
		),
		ColorNext: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next color"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}

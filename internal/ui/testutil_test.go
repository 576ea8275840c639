package ui

import (
	"testing"
	"time"

	"bitsy/internal/config"
	"bitsy/internal/controller"
	"bitsy/internal/kv"
	"bitsy/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestController creates a controller over an in-memory area.
func createTestController(t *testing.T, opts ...controller.Option) (*controller.Controller, kv.Store) {
	t.Helper()
	area := kv.NewMemStore()
	log := zaptest.NewLogger(t)
	opts = append([]controller.Option{controller.WithClock(func() time.Time { return testNow })}, opts...)
	return controller.New(storage.New(area, log), log, opts...), area
}

// createTestApp creates an App sized 80x30 with confirmations on.
func createTestApp(t *testing.T, opts ...controller.Option) *App {
	t.Helper()
	setupTest(t)
	ctrl, _ := createTestController(t, opts...)
	app := NewApp(ctrl, nil, &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: true,
	})
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return app
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func press(app *App, msgs ...tea.Msg) {
	for _, m := range msgs {
		app.Update(m)
	}
}

// addHabit drives the form to create a habit called name.
func addHabit(t *testing.T, app *App, name string) {
	t.Helper()
	press(app, keyRunes("a"), keyRunes(name), keyType(tea.KeyEnter))
	if app.form != nil {
		t.Fatalf("form still open after adding %q", name)
	}
}

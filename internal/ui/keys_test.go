package ui

import (
	"reflect"
	"testing"

	"bitsy/internal/config"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name     string
		custom   string
		defaults []string
		want     []string
	}{
		{"empty uses defaults", "", []string{"q", "ctrl+c"}, []string{"q", "ctrl+c"}},
		{"single", "x", []string{"q"}, []string{"x"}},
		{"list with spaces", " a , b ,c", nil, []string{"a", "b", "c"}},
		{"space keyword", "space,enter", nil, []string{" ", "enter"}},
		{"only commas uses defaults", ",,", []string{"d"}, []string{"d"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseKeys(tc.custom, tc.defaults...)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseKeys(%q) = %q, want %q", tc.custom, got, tc.want)
			}
		})
	}
}

func TestNewKeyMap_Defaults(t *testing.T) {
	k := DefaultKeyMap()

	if !key.Matches(keyType(tea.KeySpace), k.Advance) {
		t.Error("space should complete today")
	}
	if !key.Matches(keyRunes("h"), k.Prev) {
		t.Error("h should select the previous habit")
	}
	if !key.Matches(keyRunes("l"), k.Next) {
		t.Error("l should select the next habit")
	}
	if got := k.Advance.Help().Key; got != "space" {
		t.Errorf("Advance help key = %q, want space", got)
	}
}

func TestNewKeyMap_Custom(t *testing.T) {
	k := NewKeyMap(&config.KeysConfig{Add: "n", Delete: "d,backspace"})

	if !key.Matches(keyRunes("n"), k.Add) {
		t.Error("custom add key not bound")
	}
	if key.Matches(keyRunes("a"), k.Add) {
		t.Error("default add key should be replaced")
	}
	if got := k.Delete.Help().Key; got != "d" {
		t.Errorf("Delete help key = %q, want d", got)
	}
}

func TestNewKeyMap_NilConfig(t *testing.T) {
	k := NewKeyMap(nil)
	if !key.Matches(keyRunes("q"), k.Quit) {
		t.Error("nil config should fall back to defaults")
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	k := DefaultKeyMap()
	if len(k.ShortHelp()) == 0 {
		t.Error("ShortHelp is empty")
	}
	var n int
	for _, group := range k.FullHelp() {
		n += len(group)
	}
	if n != 11 {
		t.Errorf("FullHelp has %d bindings, want 11", n)
	}
}

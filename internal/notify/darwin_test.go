//go:build darwin

package notify

import "testing"

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello", "Hello"},
		{`You built "Read" for 90 days!`, `You built \"Read\" for 90 days!`},
		{`Path\to\file`, `Path\\to\\file`},
	}

	for _, tc := range tests {
		if got := escapeAppleScript(tc.input); got != tc.expected {
			t.Errorf("escapeAppleScript(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

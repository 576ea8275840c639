package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "bitsy")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if content == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Habits.TotalSquares != 90 {
		t.Errorf("Habits.TotalSquares = %d, want 90", cfg.Habits.TotalSquares)
	}
	if cfg.Habits.DefaultColor != "#A8E6CF" {
		t.Errorf("Habits.DefaultColor = %q, want #A8E6CF", cfg.Habits.DefaultColor)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Error("UX.ConfirmDeletions should default to true")
	}
	if cfg.UX.GridColumns != 15 {
		t.Errorf("UX.GridColumns = %d, want 15", cfg.UX.GridColumns)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	writeConfig(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#7C3AED" {
		t.Errorf("Theme.Primary = %q, want #7C3AED", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	writeConfig(t, `
data_dir: /custom/data
storage:
  backend: SQLite
theme:
  primary: "#FF0000"
keys:
  advance: "m"
habits:
  total_squares: 30
  default_color: "#C7CEEA"
logging:
  level: debug
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want default #6B7280", cfg.Theme.Muted)
	}
	if cfg.Keys.Advance != "m" {
		t.Errorf("Keys.Advance = %q, want m", cfg.Keys.Advance)
	}
	if cfg.Habits.TotalSquares != 30 {
		t.Errorf("Habits.TotalSquares = %d, want 30", cfg.Habits.TotalSquares)
	}
	if cfg.Habits.DefaultColor != "#C7CEEA" {
		t.Errorf("Habits.DefaultColor = %q, want #C7CEEA", cfg.Habits.DefaultColor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	writeConfig(t, `
theme:
  primary: "#FF0000"
notifications:
  enabled: true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Notifications.Enabled {
		t.Errorf("Notifications.Enabled = %v, want true", cfg.Notifications.Enabled)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	writeConfig(t, `
ux:
  confirm_deletions: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "ux: [", "parse config"},
		{"unknown backend", "storage:\n  backend: redis\n", "storage.backend"},
		{"bad color", "habits:\n  default_color: green\n", "habits.default_color"},
		{"huge cycle", "habits:\n  total_squares: 35184372088832\n", "habits.total_squares"},
		{"cycle over cap", "habits:\n  total_squares: 3651\n", "habits.total_squares"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme: ThemeConfig{
			Primary: "#CUSTOM",
		},
		Keys: KeysConfig{Prev: "b"},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#CUSTOM" {
		t.Errorf("Theme.Primary = %q, want #CUSTOM", base.Theme.Primary)
	}
	if base.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want #10B981", base.Theme.Accent)
	}
	if base.Keys.Prev != "b" || base.Keys.Next != "" {
		t.Errorf("Keys = %+v, want only Prev overridden", base.Keys)
	}
}

func TestGetDataDir(t *testing.T) {
	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{name: "empty uses default", dataDir: "", want: ""},
		{name: "absolute path", dataDir: "/custom/path", want: "/custom/path"},
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		tests = append(tests, []struct {
			name    string
			dataDir string
			want    string
		}{
			{name: "tilde expands home", dataDir: "~", want: home},
			{name: "tilde path expands home", dataDir: "~/mydata", want: filepath.Join(home, "mydata")},
		}...)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := (&Config{DataDir: tt.dataDir}).GetDataDir()

			if tt.dataDir == "" {
				if filepath.Base(got) != ".bitsy" {
					t.Errorf("GetDataDir() = %q, want to end with .bitsy", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("GetDataDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	writeConfig(t, "")

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#123456"
	cfg.Notifications.Enabled = true

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(Path()); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Theme.Primary != "#123456" {
		t.Errorf("loaded Theme.Primary = %q, want #123456", loaded.Theme.Primary)
	}
	if !loaded.Notifications.Enabled {
		t.Error("loaded Notifications.Enabled = false, want true")
	}
}

// Package config handles configuration loading and defaults for bitsy.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/bitsy/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"bitsy/internal/fsutil"
	"bitsy/internal/habit"
	"bitsy/internal/kv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.bitsy)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects the key-value backend
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Theme customizes the accent colors of the widget
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Habits sets defaults for new habits
	Habits HabitsConfig `yaml:"habits,omitempty"`

	// Notifications configures desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Logging configures the log file
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// StorageConfig selects where habits are kept.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite"
	Backend string `yaml:"backend,omitempty"`
}

// HabitsConfig holds defaults for newly created habits.
type HabitsConfig struct {
	// TotalSquares is the cycle length
	TotalSquares int `yaml:"total_squares,omitempty"` // default: 90

	// DefaultColor preselects a palette entry in the form (hex)
	DefaultColor string `yaml:"default_color,omitempty"` // default: "#A8E6CF"
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled sends a notification when a cycle completes
	Enabled bool `yaml:"enabled,omitempty"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// LoggingConfig defines the log level.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"` // default: "info"
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for the header and focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "h,left", "space,enter"
type KeysConfig struct {
	// Global keys
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	// Navigation keys
	Prev string `yaml:"prev,omitempty"` // default: "h,left"
	Next string `yaml:"next,omitempty"` // default: "l,right"

	// Habit keys
	Advance  string `yaml:"advance,omitempty"`  // default: "space,enter"
	Add      string `yaml:"add,omitempty"`      // default: "a"
	Edit     string `yaml:"edit,omitempty"`     // default: "e"
	Delete   string `yaml:"delete,omitempty"`   // default: "x"
	Reset    string `yaml:"reset,omitempty"`    // default: "r"
	Progress string `yaml:"progress,omitempty"` // default: "p"
	Theme    string `yaml:"theme,omitempty"`    // default: "t"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions asks before restarting a cycle. Deleting a habit
	// always asks.
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// GridColumns is the number of squares per grid row
	GridColumns int `yaml:"grid_columns,omitempty"` // default: 15
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Backend: kv.BackendFile,
		},
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			GridColumns:      15,
		},
		Habits: HabitsConfig{
			TotalSquares: habit.DefaultTotalSquares,
			DefaultColor: habit.DefaultColor,
		},
		Notifications: NotificationConfig{
			Enabled: false,
			Sound:   false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bitsy"
	}
	return filepath.Join(home, ".bitsy")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bitsy")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bitsy")
}

// Path returns the path to the config file, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from path, merging with defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate rejects values the rest of the app cannot work with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "", kv.BackendFile, kv.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want file or sqlite)", c.Storage.Backend)
	}
	if !habit.ValidTotal(c.Habits.TotalSquares) {
		return fmt.Errorf("habits.total_squares: must be between 1 and %d, got %d", habit.MaxTotalSquares, c.Habits.TotalSquares)
	}
	if !hexColor.MatchString(c.Habits.DefaultColor) {
		return fmt.Errorf("habits.default_color: %q is not #RRGGBB", c.Habits.DefaultColor)
	}
	if c.UX.GridColumns <= 0 {
		return fmt.Errorf("ux.grid_columns: must be positive, got %d", c.UX.GridColumns)
	}
	return nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Storage.Backend != "" {
		c.Storage.Backend = strings.ToLower(strings.TrimSpace(other.Storage.Backend))
	}

	// Theme merging
	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}

	// Keys merging
	keys := []struct {
		dst *string
		src string
	}{
		{&c.Keys.Quit, other.Keys.Quit},
		{&c.Keys.Help, other.Keys.Help},
		{&c.Keys.Prev, other.Keys.Prev},
		{&c.Keys.Next, other.Keys.Next},
		{&c.Keys.Advance, other.Keys.Advance},
		{&c.Keys.Add, other.Keys.Add},
		{&c.Keys.Edit, other.Keys.Edit},
		{&c.Keys.Delete, other.Keys.Delete},
		{&c.Keys.Reset, other.Keys.Reset},
		{&c.Keys.Progress, other.Keys.Progress},
		{&c.Keys.Theme, other.Keys.Theme},
		{&c.Keys.Confirm, other.Keys.Confirm},
		{&c.Keys.Cancel, other.Keys.Cancel},
	}
	for _, k := range keys {
		if k.src != "" {
			*k.dst = k.src
		}
	}

	if other.UX.GridColumns > 0 {
		c.UX.GridColumns = other.UX.GridColumns
	}
	if other.Habits.TotalSquares > 0 {
		c.Habits.TotalSquares = other.Habits.TotalSquares
	}
	if other.Habits.DefaultColor != "" {
		c.Habits.DefaultColor = other.Habits.DefaultColor
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	// Re-apply booleans only when present in YAML.
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") || strings.HasPrefix(c.DataDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			trimmed := strings.TrimPrefix(c.DataDir, "~/")
			trimmed = strings.TrimPrefix(trimmed, `~\`)
			return filepath.Join(home, trimmed)
		}
	}
	return c.DataDir
}

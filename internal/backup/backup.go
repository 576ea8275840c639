// Package backup provides backup and restore of the habit data. A backup is
// a snapshot of every key in the key-value area, written as one file per key
// under <data_dir>/backups/<timestamp>/ next to a manifest.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"bitsy/internal/habit"
	"bitsy/internal/kv"
	"bitsy/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "2.0"
	ManifestKey     = "manifest"
	BackupsDir      = "backups"
)

const nameLayout = "2006-01-02_150405"

// Manager handles backup and restore operations.
type Manager struct {
	area       kv.Store // The live key-value area
	backupDir  string   // Path to backups directory (e.g., ~/.bitsy/backups)
	appVersion string   // Application version for manifest
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Keys       []string       `json:"keys"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2026-03-01_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // Statistics (habits, legacy_habits)
}

// NewManager creates a backup manager for area, keeping backups under dataDir.
func NewManager(area kv.Store, dataDir, appVersion string) *Manager {
	return &Manager{
		area:       area,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Create snapshots every key of the area.
// Returns the backup name (timestamp format) on success.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	keys, err := m.area.Keys()
	if err != nil {
		return "", fmt.Errorf("failed to list keys: %w", err)
	}

	name, backupPath, err := m.reserveName()
	if err != nil {
		return "", err
	}
	snap, err := kv.NewFileStore(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	stats := make(map[string]int)
	for _, key := range keys {
		value, err := m.area.Get(key)
		if err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := snap.Set(key, value); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", key, err)
		}
		if statKey, n, ok := countHabits(key, value); ok {
			stats[statKey] = n
		}
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  m.now(),
		AppVersion: m.appVersion,
		Keys:       keys,
		Stats:      stats,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = snap.Set(ManifestKey, data)
	}
	if err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// reserveName picks an unused timestamped directory, with milliseconds for
// uniqueness.
func (m *Manager) reserveName() (string, string, error) {
	now := m.now()
	for i := 0; i < 1000; i++ {
		t := now.Add(time.Duration(i) * time.Millisecond)
		name := fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
		path := filepath.Join(m.backupDir, name)
		if err := os.Mkdir(path, 0700); err == nil {
			return name, path, nil
		} else if !errors.Is(err, os.ErrExist) {
			return "", "", fmt.Errorf("failed to create backup: %w", err)
		}
	}
	return "", "", fmt.Errorf("failed to create backup: no free name near %s", now.Format(nameLayout))
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	path := filepath.Join(m.backupDir, name)
	manifest, err := readManifest(path)
	if err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest = &Manifest{CreatedAt: createdAt, Stats: map[string]int{}}
	}
	return &BackupInfo{
		Name:      name,
		Path:      path,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Restore replaces the area's contents with a backup. A safety backup of
// the current data is taken first; keys absent from the backup are removed.
// It returns the name of the safety backup.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateBackupName(name); err != nil {
		return "", err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup not found: %s", name)
	}

	snapshot, err := readSnapshot(backupPath)
	if err != nil {
		return "", fmt.Errorf("backup %s is unreadable: %w", name, err)
	}
	if err := validateSnapshot(snapshot); err != nil {
		return "", fmt.Errorf("backup %s is invalid: %w", name, err)
	}

	safetyName, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	current, err := m.area.Keys()
	if err != nil {
		return safetyName, fmt.Errorf("failed to list keys (safety backup: %s): %w", safetyName, err)
	}
	for _, key := range current {
		if _, keep := snapshot[key]; keep {
			continue
		}
		if err := m.area.Delete(key); err != nil {
			return safetyName, fmt.Errorf("failed to remove %s (safety backup: %s): %w", key, safetyName, err)
		}
	}
	for _, key := range sortedKeys(snapshot) {
		if err := m.area.Set(key, snapshot[key]); err != nil {
			return safetyName, fmt.Errorf("failed to restore %s (safety backup: %s): %w", key, safetyName, err)
		}
	}
	return safetyName, nil
}

// RestoreLatest restores from the most recent backup and returns its name.
func (m *Manager) RestoreLatest() (string, error) {
	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("no backups available")
	}
	if _, err := m.Restore(backups[0].Name); err != nil {
		return "", err
	}
	return backups[0].Name, nil
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Helper functions

func readManifest(backupPath string) (*Manifest, error) {
	snap, err := kv.NewFileStore(backupPath)
	if err != nil {
		return nil, err
	}
	data, err := snap.Get(ManifestKey)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	if manifest.Stats == nil {
		manifest.Stats = map[string]int{}
	}
	return &manifest, nil
}

// readSnapshot loads every key of a backup except the manifest.
func readSnapshot(backupPath string) (map[string][]byte, error) {
	snap, err := kv.NewFileStore(backupPath)
	if err != nil {
		return nil, err
	}
	keys, err := snap.Keys()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if key == ManifestKey {
			continue
		}
		value, err := snap.Get(key)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

// validateSnapshot refuses backups whose habit records would not decode.
func validateSnapshot(snapshot map[string][]byte) error {
	if data, ok := snapshot[storage.KeyData]; ok {
		if _, err := storage.DecodeRecord(data); err != nil {
			return err
		}
	}
	if data, ok := snapshot[storage.KeyLegacyHabits]; ok {
		if _, err := habit.DecodeList(data); err != nil {
			return err
		}
	}
	return nil
}

// countHabits reports the habit count of a record key.
func countHabits(key string, value []byte) (string, int, bool) {
	switch key {
	case storage.KeyData:
		rec, err := storage.DecodeRecord(value)
		if err != nil {
			return "", 0, false
		}
		return "habits", len(rec.Habits), true
	case storage.KeyLegacyHabits:
		habits, err := habit.DecodeList(value)
		if err != nil {
			return "", 0, false
		}
		return "legacy_habits", len(habits), true
	default:
		return "", 0, false
	}
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports both 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		baseTime, err := time.Parse(nameLayout, name[:17])
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.Parse(nameLayout, name)
}

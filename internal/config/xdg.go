// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "idiomquiz"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDataDir returns the directory searched for datasets after the working directory.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appName)
}

// DefaultDBPath returns the default path for the SQLite sheet.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultLogPath returns the log file used while the TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DatasetCandidates expands dataset file names into the ordered lookup paths:
// each name in the working directory first, then in the data dir.
func DatasetCandidates(names []string) []string {
	out := make([]string, 0, len(names)*2)
	for _, name := range names {
		out = append(out, name)
	}
	dataDir := DefaultDataDir()
	for _, name := range names {
		if filepath.IsAbs(name) {
			continue
		}
		out = append(out, filepath.Join(dataDir, name))
	}
	return out
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package config loads the single settings struct threaded through every
// subsystem: the vdir root, matching thresholds, and per-remote CardDAV
// configuration. Grounded on original_source/src/config.rs's flat,
// serde-derived Config struct.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appName        = "rldx"
	configFileName = "config.toml"

	// DefaultSimHashThreshold is the Hamming-distance radius used by the
	// BK-tree prefilter when no override is configured.
	DefaultSimHashThreshold = 4
	// DefaultJWThreshold is the Jaro-Winkler verification cutoff.
	DefaultJWThreshold = 0.90
)

// RemoteConfig describes one CardDAV remote.
type RemoteConfig struct {
	Name           string `toml:"name"`
	URL            string `toml:"url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	AddressBook    string `toml:"address_book"`
	Book           string `toml:"book"`
	ConflictPrefer string `toml:"conflict_prefer"` // "ours" | "theirs"
	PullOnly       bool   `toml:"pull_only"`
}

// Config is the process-wide settings object. Loaded once, passed by
// reference; never mutated after Load returns.
type Config struct {
	ConfigPath       string                  `toml:"-"`
	Vdir             string                  `toml:"vdir"`
	DBPath           string                  `toml:"db_path"`
	PhoneRegion      string                  `toml:"phone_region"`
	SimHashThreshold int                     `toml:"simhash_threshold"`
	JWThreshold      float64                 `toml:"jw_threshold"`
	ConflictPrefer   string                  `toml:"conflict_prefer"`
	Remotes          map[string]RemoteConfig `toml:"remotes"`
	// EmailSkipPatterns excludes maildir-extracted addresses whose email
	// contains any of these substrings (case-insensitive) from import,
	// e.g. "noreply@", "mailer-daemon@". The original's
	// MaildirImportConfig::should_skip_email body was not present in the
	// retrieved sources, so this is a reasonable substring-match
	// reconstruction rather than a direct port.
	EmailSkipPatterns []string `toml:"email_skip_patterns"`
}

// ErrNoHomeDirectory is returned when neither $HOME nor os.UserHomeDir can
// resolve a base directory for defaults.
var ErrNoHomeDirectory = fmt.Errorf("could not determine home directory")

// defaultPaths resolves the default config file, vdir, and database paths
// under the platform config/data directories, mirroring BaseDirs::new() in
// original_source/src/config.rs.
func defaultPaths() (configPath, vdir, dbPath string, err error) {
	home, herr := os.UserHomeDir()
	if herr != nil || home == "" {
		return "", "", "", ErrNoHomeDirectory
	}

	configDir := filepath.Join(home, ".config", appName)
	dataDir := filepath.Join(home, ".local", "share", appName)

	return filepath.Join(configDir, configFileName),
		filepath.Join(home, appName),
		filepath.Join(dataDir, "index.db"),
		nil
}

// Load reads the config file at path (or the default location when path is
// empty), applying RLDX_VDIR/RLDX_DB_PATH environment overrides, and fills
// in defaults for unset fields.
func Load(path string) (*Config, error) {
	defaultConfigPath, defaultVdir, defaultDBPath, err := defaultPaths()
	if err != nil {
		return nil, err
	}

	if path == "" {
		if env := os.Getenv("RLDX_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
		}
	}

	cfg := &Config{
		ConfigPath:       path,
		Vdir:             defaultVdir,
		DBPath:           defaultDBPath,
		SimHashThreshold: DefaultSimHashThreshold,
		JWThreshold:      DefaultJWThreshold,
		ConflictPrefer:   "ours",
		Remotes:          map[string]RemoteConfig{},
	}

	if data, rerr := os.ReadFile(path); rerr == nil {
		if _, derr := toml.Decode(string(data), cfg); derr != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, derr)
		}
	} else if !os.IsNotExist(rerr) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, rerr)
	}

	if v := os.Getenv("RLDX_VDIR"); v != "" {
		cfg.Vdir = v
	}
	if v := os.Getenv("RLDX_DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.ConfigPath = path

	return cfg, nil
}

// RemoteConflictPreference returns the remote's override, falling back to
// the global default.
func (c *Config) RemoteConflictPreference(remoteName string) string {
	if r, ok := c.Remotes[remoteName]; ok && r.ConflictPrefer != "" {
		return r.ConflictPrefer
	}
	return c.ConflictPrefer
}

// IsValidFNForMerge reports whether fnValue is meaningful enough to drive
// an automerge lookup. Mirrors the original's is_valid_contact length floor
// (original_source/src/import/maildir.rs) since the exact
// MaildirImportConfig::is_valid_fn_for_merge body was not present in the
// retrieved sources; a two-rune floor rejects initials-only noise without
// excluding legitimate short names.
func (c *Config) IsValidFNForMerge(fnValue string) bool {
	return len([]rune(fnValue)) >= 2
}

// IsValidNicknameForMerge reports whether a nickname is meaningful enough
// to drive an automerge lookup. See IsValidFNForMerge.
func (c *Config) IsValidNicknameForMerge(nickname string) bool {
	return len([]rune(nickname)) >= 2
}

// ShouldSkipEmail reports whether email matches one of EmailSkipPatterns.
func (c *Config) ShouldSkipEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, pattern := range c.EmailSkipPatterns {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

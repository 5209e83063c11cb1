package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds release tool settings shared by all subcommands.
type Config struct {
	// RepoPath is the working tree of the repository being released.
	RepoPath string `yaml:"repo_path"`
	// Remote is the git remote releases are pushed to.
	Remote string `yaml:"remote"`
	// Branch is the branch pushed alongside release tags.
	Branch string `yaml:"branch"`
	// TagPrefix is prepended to the version string when tagging (usually "v").
	TagPrefix string `yaml:"tag_prefix"`
	// VersionFile is the path to the JSON document storing the version record.
	// The tracker's UI badge reads the same file, so the location is shared state.
	VersionFile string `yaml:"version_file"`
	// HistoryDB is the path to the SQLite release history database.
	HistoryDB string `yaml:"history_db"`
	// Push controls whether successful releases are pushed to the remote.
	Push bool `yaml:"push"`
	// Timeout is the duration allowed for individual git operations.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for release settings.
	DefaultConfigFilename = "release-settings.yaml"

	// DefaultVersionFilename is the default filename for the version record JSON.
	DefaultVersionFilename = "version.json"

	// DefaultHistoryDBPath is the default location of the release history database.
	DefaultHistoryDBPath = "~/.expense-release/history.db"

	// DefaultRemote is the git remote used when none is configured.
	DefaultRemote = "origin"

	// DefaultBranch is the branch pushed on release when none is configured.
	DefaultBranch = "main"

	// DefaultTagPrefix is prepended to version strings when tagging.
	DefaultTagPrefix = "v"

	// DefaultTimeout is the default duration for git operations.
	DefaultTimeout = 10 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errTagPrefixInvalid is returned when the tag prefix contains whitespace.
	errTagPrefixInvalid = errors.New("tag prefix must not contain whitespace")
)

// Load reads configuration from the provided path and applies defaults.
// A missing file is not an error: the tool must work in a bare checkout,
// so Default() settings are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Default returns settings suitable for a bare checkout with no config file.
func Default() *Config {
	return &Config{
		RepoPath:    ".",
		Remote:      DefaultRemote,
		Branch:      DefaultBranch,
		TagPrefix:   DefaultTagPrefix,
		VersionFile: DefaultVersionFilename,
		HistoryDB:   DefaultHistoryDBPath,
		Push:        true,
		Timeout:     DefaultTimeout,
	}
}

// Validate checks the provided settings and fills absent fields with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}

	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}

	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}

	if strings.ContainsAny(cfg.TagPrefix, " \t\n") {
		return errTagPrefixInvalid
	}

	if cfg.VersionFile == "" {
		cfg.VersionFile = DefaultVersionFilename
	}

	if cfg.HistoryDB == "" {
		cfg.HistoryDB = DefaultHistoryDBPath
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

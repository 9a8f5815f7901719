package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by a full synchronization run.
type Config struct {
	// CatalogPath is the path to the YAML build catalog.
	CatalogPath string `yaml:"catalog_path"`
	// StateDir is the directory holding per-channel tracking state files.
	StateDir string `yaml:"state_dir"`
	// OutputDir is where the build processor places produced artifacts.
	OutputDir string `yaml:"output_dir"`
	// BuildCommand is the executable invoked to compile one build definition.
	BuildCommand string `yaml:"build_command"`
	// StableVersionURL returns the latest stable version string when fetched.
	StableVersionURL string `yaml:"stable_version_url"`
	// NightlyVersionURL returns the latest nightly version string when fetched.
	NightlyVersionURL string `yaml:"nightly_version_url"`
	// ReleaseOwner is the owner of the repository releases are published to.
	ReleaseOwner string `yaml:"release_owner"`
	// ReleaseRepo is the repository releases are published to.
	ReleaseRepo string `yaml:"release_repo"`
	// TokenEnv names the environment variable carrying the release API token.
	TokenEnv string `yaml:"token_env"`
	// Timeout is the duration for network operations (version lookups and
	// release API calls). Build commands run without a deadline, since a
	// firmware build may legitimately take much longer than any network call.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for run settings.
	DefaultConfigFilename = "firmware-releaser.yaml"

	// DefaultTokenEnv is the environment variable consulted for the API token
	// when token_env is not set.
	DefaultTokenEnv = "GITHUB_TOKEN"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for state files.
	DefaultFilePermissions = 0o600
)

var (
	// errCatalogPathRequired is returned when the build catalog path is missing.
	errCatalogPathRequired = errors.New("catalog path must be provided")
	// errBuildCommandRequired is returned when the build command is missing.
	errBuildCommandRequired = errors.New("build command must be provided")
	// errVersionURLRequired is returned when a channel version URL is missing.
	errVersionURLRequired = errors.New("stable and nightly version URLs must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the provided settings for required fields and formatting.
// Release owner and repository are intentionally not checked here: a dry run
// never touches the release API, so they are verified at publish time instead.
func Validate(cfg *Config) error {
	if cfg.CatalogPath == "" {
		return errCatalogPathRequired
	}

	if cfg.BuildCommand == "" {
		return errBuildCommandRequired
	}

	if cfg.StableVersionURL == "" || cfg.NightlyVersionURL == "" {
		return errVersionURLRequired
	}

	for _, raw := range []string{cfg.StableVersionURL, cfg.NightlyVersionURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid version URL: %w", err)
		}
	}

	// Set default state directory if not specified.
	if cfg.StateDir == "" {
		cfg.StateDir = "."
	}

	// Set default token variable if not specified.
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = DefaultTokenEnv
	}

	// Set default timeout if not specified.
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and defaults for run settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing catalog path.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Missing build command.
	cfg = &Config{
		CatalogPath: "builds.yaml",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Bad version URL.
	cfg = &Config{
		CatalogPath:       "builds.yaml",
		BuildCommand:      "make-firmware",
		StableVersionURL:  "not a url",
		NightlyVersionURL: "also not",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults applied.
	cfg = &Config{
		CatalogPath:       "builds.yaml",
		BuildCommand:      "make-firmware",
		StableVersionURL:  "https://example.com/stable",
		NightlyVersionURL: "https://example.com/nightly",
	}

	require.NoError(t, Validate(cfg))
	require.Equal(t, ".", cfg.StateDir)
	require.Equal(t, DefaultTokenEnv, cfg.TokenEnv)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
}

// TestLoad ensures settings are read back from disk with validation applied.
func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	contents := []byte(`catalog_path: builds.yaml
build_command: make-firmware
stable_version_url: https://example.com/stable
nightly_version_url: https://example.com/nightly
release_owner: acme
release_repo: firmware
timeout: 10s
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "builds.yaml", cfg.CatalogPath)
	require.Equal(t, "acme", cfg.ReleaseOwner)
	require.Equal(t, "firmware", cfg.ReleaseRepo)
	require.Equal(t, 10*time.Second, cfg.Timeout)

	// Missing file is an error.
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

//go:build !windows

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/firmware-releaser/internal/domain/release"
	"github.com/oshokin/firmware-releaser/internal/service/guard"
)

// TestParseChannels maps CLI selectors to release tracks.
func TestParseChannels(t *testing.T) {
	t.Parallel()

	channels, err := parseChannels("")
	require.NoError(t, err)
	require.Equal(t, []release.Channel{release.ChannelStable, release.ChannelNightly}, channels)

	channels, err = parseChannels("all")
	require.NoError(t, err)
	require.Len(t, channels, 2)

	channels, err = parseChannels("Stable")
	require.NoError(t, err)
	require.Equal(t, []release.Channel{release.ChannelStable}, channels)

	channels, err = parseChannels("nightly")
	require.NoError(t, err)
	require.Equal(t, []release.Channel{release.ChannelNightly}, channels)

	_, err = parseChannels("beta")
	require.ErrorIs(t, err, errUnknownChannel)
}

// writeRunFixture lays out config, catalog, build file and build script for a run.
func writeRunFixture(t *testing.T, serverURL string) (configPath, stateDir string) {
	t.Helper()

	dir := t.TempDir()
	stateDir = filepath.Join(dir, "state")
	require.NoError(t, os.Mkdir(stateDir, 0o755))

	artifact := filepath.Join(dir, "fw.bin")
	require.NoError(t, os.WriteFile(artifact, []byte("firmware"), 0o600))

	script := filepath.Join(dir, "build.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho "+artifact+"\n"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sensor.yaml"), []byte("sensor config"), 0o600))

	catalogPath := filepath.Join(dir, "builds.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`sensor:
  file: sensor.yaml
  templates:
    stable: fw-sensor-%version%
    nightly: fw-sensor-nightly-%date%
`), 0o600))

	configPath = filepath.Join(dir, "settings.yaml")
	contents := fmt.Sprintf(`catalog_path: %s
state_dir: %s
build_command: %s
stable_version_url: %s/stable
nightly_version_url: %s/nightly
timeout: 5s
`, catalogPath, stateDir, script, serverURL, serverURL)
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o600))

	return configPath, stateDir
}

// newVersionServer serves fixed stable and nightly version strings.
func newVersionServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/stable", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("2.1.1"))
	})
	mux.HandleFunc("/nightly", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("2026.08.27"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

// TestRun_DryRun exercises the whole flow without writing state or contacting
// the release API.
func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	server := newVersionServer(t)
	configPath, stateDir := writeRunFixture(t, server.URL)

	err := Run(context.Background(), &Options{
		ConfigPath: configPath,
		Channel:    "all",
		DryRun:     true,
	})
	require.NoError(t, err)

	// No tracking state was written for either channel.
	for _, channel := range []release.Channel{release.ChannelStable, release.ChannelNightly} {
		_, statErr := os.Stat(filepath.Join(stateDir, fmt.Sprintf("firmware-releaser-%s.json", channel)))
		require.ErrorIs(t, statErr, os.ErrNotExist)
	}

	// The run marker was cleaned up.
	_, statErr := os.Stat(filepath.Join(stateDir, guard.MarkerFilename))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

// TestRun_AlreadyRunning refuses to race a fresh marker.
func TestRun_AlreadyRunning(t *testing.T) {
	t.Parallel()

	server := newVersionServer(t)
	configPath, stateDir := writeRunFixture(t, server.URL)

	require.NoError(t, guard.CreateMarker(filepath.Join(stateDir, guard.MarkerFilename)))

	err := Run(context.Background(), &Options{
		ConfigPath: configPath,
		Channel:    "stable",
		DryRun:     true,
	})
	require.ErrorIs(t, err, errAlreadyRunning)
}

// TestRun_MissingToken fails fast when publishing without credentials.
func TestRun_MissingToken(t *testing.T) {
	server := newVersionServer(t)
	configPath, _ := writeRunFixture(t, server.URL)

	// Owner and repository are configured but the token variable is empty.
	contents, err := os.ReadFile(configPath)
	require.NoError(t, err)

	extended := string(contents) + "release_owner: acme\nrelease_repo: firmware\ntoken_env: FIRMWARE_RELEASER_TEST_TOKEN\n"
	require.NoError(t, os.WriteFile(configPath, []byte(extended), 0o600))
	t.Setenv("FIRMWARE_RELEASER_TEST_TOKEN", "")

	err = Run(context.Background(), &Options{
		ConfigPath: configPath,
		Channel:    "stable",
	})
	require.ErrorIs(t, err, errTokenMissing)
}

// TestRun_MissingReleaseTarget fails fast when owner or repository is not set.
func TestRun_MissingReleaseTarget(t *testing.T) {
	t.Parallel()

	server := newVersionServer(t)
	configPath, _ := writeRunFixture(t, server.URL)

	err := Run(context.Background(), &Options{
		ConfigPath: configPath,
		Channel:    "stable",
	})
	require.ErrorIs(t, err, errReleaseTargetMissing)
}

package guard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestIsRunningNow_FreshMarker reports busy while a recent marker exists.
func TestIsRunningNow_FreshMarker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), MarkerFilename)
	require.NoError(t, CreateMarker(path))

	require.True(t, IsRunningNow(context.Background(), path))
}

// TestIsRunningNow_NoMarker reports idle when no marker exists.
func TestIsRunningNow_NoMarker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), MarkerFilename)
	require.False(t, IsRunningNow(context.Background(), path))
}

// TestIsRunningNow_StaleMarker recovers by removing an expired marker.
func TestIsRunningNow_StaleMarker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), MarkerFilename)
	require.NoError(t, CreateMarker(path))

	stale := time.Now().Add(-2 * markerLifetime)
	require.NoError(t, os.Chtimes(path, stale, stale))

	require.False(t, IsRunningNow(context.Background(), path))

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRemoveMarker tolerates a marker that is already gone.
func TestRemoveMarker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), MarkerFilename)
	RemoveMarker(path)

	require.NoError(t, CreateMarker(path))
	RemoveMarker(path)

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

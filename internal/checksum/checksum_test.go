package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileDigest checks a known SHA-256 value and stability across calls.
func TestFileDigest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	got, err := FileDigest(path)
	require.NoError(t, err)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)

	again, err := FileDigest(path)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

// TestFileDigest_Missing returns the underlying error for a missing file.
func TestFileDigest_Missing(t *testing.T) {
	t.Parallel()

	_, err := FileDigest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

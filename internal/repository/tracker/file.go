package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/firmware-releaser/internal/config"
	"github.com/oshokin/firmware-releaser/internal/domain/release"
)

// LoadResult describes the outcome of loading the tracking state.
// NotFound and Corrupt both trigger bootstrap classification: loss of tracking
// state is indistinguishable from nothing having ever been built.
type LoadResult int

const (
	// Found means a valid tracking state was read from disk.
	Found LoadResult = iota
	// NotFound means no tracking state file exists yet.
	NotFound
	// Corrupt means the file exists but could not be decoded.
	Corrupt
)

// Repository defines persistence operations for per-channel tracking state.
type Repository interface {
	Load(ctx context.Context) (release.TrackingState, LoadResult, error)
	Save(ctx context.Context, state release.TrackingState) error
}

// FileRepository persists the tracking state of one channel to a JSON file.
// Saves are transactional: the new state is written to a temporary file in the
// same directory and moved over the previous one, so a crash never leaves a
// truncated tracker behind.
type FileRepository struct {
	// path is the filesystem location of the JSON tracking file.
	path string
	// mu protects concurrent access to the tracking file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// PathFor returns the tracking file path for a channel inside the state directory.
func PathFor(stateDir string, channel release.Channel) string {
	return filepath.Join(stateDir, fmt.Sprintf("firmware-releaser-%s.json", channel))
}

// Load reads the tracking state from disk.
// A missing file yields NotFound and an undecodable file yields Corrupt;
// neither is an error. Other I/O failures are returned as errors.
func (r *FileRepository) Load(_ context.Context) (release.TrackingState, LoadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NotFound, nil
		}

		return nil, NotFound, fmt.Errorf("read tracking file: %w", err)
	}

	var state release.TrackingState
	if err = json.Unmarshal(contents, &state); err != nil {
		return nil, Corrupt, nil
	}

	return state, Found, nil
}

// Save replaces the tracking state on disk in full.
func (r *FileRepository) Save(_ context.Context, state release.TrackingState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tracking state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temporary tracking file: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write tracking state: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close temporary tracking file: %w", err)
	}

	if err = os.Chmod(tmp.Name(), config.DefaultFilePermissions); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("set tracking file permissions: %w", err)
	}

	if err = os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("replace tracking file: %w", err)
	}

	return nil
}

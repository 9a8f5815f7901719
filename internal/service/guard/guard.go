// Package guard prevents two synchronization runs from racing on the same
// tracking state.
//
// A run drops a marker file for its lifetime. A marker older than its
// lifetime is considered stale: any lingering synchronizer process is
// terminated and the marker removed so the scheduler can recover without
// operator intervention.
package guard

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/firmware-releaser/internal/logger"
)

const (
	// MarkerFilename marks that a synchronization run is in progress.
	MarkerFilename = "firmware-releaser-marker.bin"

	// processName is the executable terminated when a stale marker is found.
	processName = "firmware-releaser"

	// markerLifetime is the period after which a marker is considered stale.
	// It must exceed the longest expected full run.
	markerLifetime = time.Hour
)

// IsRunningNow checks presence of a marker file and attempts recovery if it looks stale.
func IsRunningNow(ctx context.Context, markerPath string) bool {
	logger.Info(ctx, "Checking for the presence of a run marker")

	fileInfo, err := os.Stat(markerPath)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The run marker is too old, attempting cleanup")

		if err = terminateProcessByName(processName); err != nil {
			return true
		}

		if err = os.Remove(markerPath); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Run marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read run marker: %v", err)

	return false
}

// CreateMarker drops the marker file for the current run.
func CreateMarker(markerPath string) error {
	marker, err := os.Create(markerPath)
	if err != nil {
		return err
	}

	return marker.Close()
}

// RemoveMarker removes the marker file, ignoring a marker that is already gone.
func RemoveMarker(markerPath string) {
	if _, err := os.Stat(markerPath); err == nil {
		_ = os.Remove(markerPath)
	}
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(name string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != name {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}

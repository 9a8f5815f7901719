// Package gate decides whether a build participates in a run based on the
// channel's latest version and the build's minimum-version requirement.
//
// The gate applies only to the stable channel; nightly builds are never
// version-gated. Excluded builds leave no record in the run's decision set.
package gate

import (
	"errors"
	"fmt"

	goversion "github.com/hashicorp/go-version"

	"github.com/oshokin/firmware-releaser/internal/domain/release"
)

// ErrInvalidMinVersion marks a syntactically invalid minimum-version string.
// It is a configuration error and aborts the entire run.
var ErrInvalidMinVersion = errors.New("invalid minimum version")

// Includes reports whether the build with the given minimum-version
// requirement is included for the channel's latest version.
//
// A set minimum version must parse on any channel, otherwise the run is
// misconfigured. The latest version is reduced to its major.minor.patch core
// before the comparison, coercing trailing non-semantic segments away.
func Includes(channel release.Channel, latest, minVersion string) (bool, error) {
	if minVersion == "" {
		return true, nil
	}

	minimum, err := goversion.NewVersion(minVersion)
	if err != nil {
		return false, fmt.Errorf("%q: %w", minVersion, ErrInvalidMinVersion)
	}

	if channel != release.ChannelStable {
		return true, nil
	}

	current, err := goversion.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("parse latest version %q: %w", latest, err)
	}

	return !current.Core().LessThan(minimum), nil
}

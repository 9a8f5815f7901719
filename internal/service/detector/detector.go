package detector

import (
	"context"
	"fmt"

	"github.com/oshokin/firmware-releaser/internal/catalog"
	"github.com/oshokin/firmware-releaser/internal/checksum"
	"github.com/oshokin/firmware-releaser/internal/domain/release"
	"github.com/oshokin/firmware-releaser/internal/gate"
	"github.com/oshokin/firmware-releaser/internal/logger"
)

// Classify evaluates every catalog build against the channel's latest version
// and the prior tracking state, producing the run's decision set.
//
// A nil prior state means bootstrap: every eligible build is classified as
// create, while disabled and version-gated builds are skipped without a
// decision since there is nothing to carry forward.
//
// The returned flag is true iff every recorded decision is ignore; an empty
// decision set counts as vacuously all-ignored.
func Classify(ctx context.Context, latestVersion string, channel release.Channel,
	cat *catalog.Catalog, prior release.TrackingState,
) (bool, map[string]*release.Decision, error) {
	decisions := make(map[string]*release.Decision, cat.Len())
	allIgnored := true

	for _, name := range cat.Names() {
		def := cat.Definition(name)

		// Disabled or restricted to the other channel.
		if !def.IsActive() || (def.Only != "" && def.Only != channel) {
			prev, tracked := prior[name]
			if !tracked {
				logger.InfoKV(ctx, "Skipping disabled build without history", "build", name)
				continue
			}

			digest, err := checksum.FileDigest(def.File)
			if err != nil {
				return false, nil, fmt.Errorf("fingerprint %s: %w", name, err)
			}

			// Keep the last known record so re-enabling the build later
			// diffs against real history instead of looking brand new.
			decisions[name] = &release.Decision{
				Version:       prev.Version,
				ContentDigest: digest,
				Definition:    def,
				Action:        release.ActionIgnore,
				AssetID:       prev.AssetID,
			}

			continue
		}

		included, err := gate.Includes(channel, latestVersion, def.MinVersion)
		if err != nil {
			return false, nil, fmt.Errorf("build %s: %w", name, err)
		}

		// Gated builds leave no record at all this run.
		if !included {
			logger.InfoKV(ctx, "Skipping version-gated build",
				"build", name, "min_version", def.MinVersion, "latest", latestVersion)

			continue
		}

		digest, err := checksum.FileDigest(def.File)
		if err != nil {
			return false, nil, fmt.Errorf("fingerprint %s: %w", name, err)
		}

		decision := &release.Decision{
			Version:       latestVersion,
			ContentDigest: digest,
			Definition:    def,
		}

		prev, tracked := prior[name]

		switch {
		case !tracked:
			decision.Action = release.ActionCreate
		case prev.Version != latestVersion:
			// A version bump always republishes as a new asset, even when
			// the content is byte-identical.
			decision.Action = release.ActionCreate
		case prev.ContentDigest != digest:
			decision.Action = release.ActionUpdate
			decision.AssetID = prev.AssetID
		default:
			decision.Action = release.ActionIgnore
			decision.AssetID = prev.AssetID
		}

		if decision.Action != release.ActionIgnore {
			allIgnored = false
		}

		logger.DebugKV(ctx, "Classified build",
			"build", name, "action", decision.Action, "version", decision.Version)

		decisions[name] = decision
	}

	return allIgnored, decisions, nil
}

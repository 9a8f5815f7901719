package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oshokin/firmware-releaser/internal/builder"
	"github.com/oshokin/firmware-releaser/internal/catalog"
	"github.com/oshokin/firmware-releaser/internal/config"
	"github.com/oshokin/firmware-releaser/internal/domain/release"
	"github.com/oshokin/firmware-releaser/internal/logger"
	"github.com/oshokin/firmware-releaser/internal/releaseapi"
	"github.com/oshokin/firmware-releaser/internal/repository/tracker"
	"github.com/oshokin/firmware-releaser/internal/resolver"
	"github.com/oshokin/firmware-releaser/internal/service/detector"
	"github.com/oshokin/firmware-releaser/internal/service/guard"
	"github.com/oshokin/firmware-releaser/internal/service/publisher"
)

// Options contains inputs for the synchronization entry point.
type Options struct {
	// ConfigPath is an optional path to the run settings (defaults to firmware-releaser.yaml).
	ConfigPath string
	// Channel selects the release track to process: stable, nightly or all.
	Channel string
	// DryRun disables release creation, uploads and state writes.
	DryRun bool
}

var (
	errAlreadyRunning       = errors.New("another synchronization run is in progress")
	errUnknownChannel       = errors.New("unknown channel")
	errTokenMissing         = errors.New("release API token is not set")
	errReleaseTargetMissing = errors.New("release owner and repository must be configured")
)

// Run executes one full synchronization attempt: for every requested channel
// it resolves the latest version, classifies the catalog against the prior
// tracking state and publishes whatever changed.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name and run id for tracking.
	ctx = logger.WithName(ctx, "firmware-releaser")
	ctx = logger.WithKV(ctx, "run_id", uuid.NewString())

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	channels, err := parseChannels(opts.Channel)
	if err != nil {
		return err
	}

	markerPath := filepath.Join(cfg.StateDir, guard.MarkerFilename)
	if guard.IsRunningNow(ctx, markerPath) {
		return errAlreadyRunning
	}

	if err = guard.CreateMarker(markerPath); err != nil {
		return fmt.Errorf("create run marker: %w", err)
	}

	defer guard.RemoveMarker(markerPath)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load build catalog: %w", err)
	}

	if cat.Len() == 0 {
		logger.Info(ctx, "Build catalog is empty, nothing to do")
		return nil
	}

	var api releaseapi.API

	if !opts.DryRun {
		if cfg.ReleaseOwner == "" || cfg.ReleaseRepo == "" {
			return errReleaseTargetMissing
		}

		token := os.Getenv(cfg.TokenEnv)
		if token == "" {
			return fmt.Errorf("%s: %w", cfg.TokenEnv, errTokenMissing)
		}

		api = releaseapi.NewGitHubClient(ctx, cfg.ReleaseOwner, cfg.ReleaseRepo, token)
	}

	versions := resolver.NewHTTPResolver(cfg.StableVersionURL, cfg.NightlyVersionURL, cfg.Timeout)

	// Builds may legitimately take far longer than network calls,
	// so the build command runs without a deadline.
	processor := builder.NewCommandProcessor(cfg.BuildCommand, cfg.OutputDir, 0)

	for _, channel := range channels {
		if err = runChannel(ctx, cfg, cat, versions, processor, api, channel, opts.DryRun); err != nil {
			return fmt.Errorf("%s channel: %w", channel, err)
		}
	}

	logger.Info(ctx, "Synchronization completed successfully")

	return nil
}

// runChannel processes one release track end to end.
func runChannel(ctx context.Context, cfg *config.Config, cat *catalog.Catalog,
	versions resolver.Resolver, processor builder.Processor, api releaseapi.API,
	channel release.Channel, dryRun bool,
) error {
	ctx = logger.WithKV(ctx, "channel", string(channel))

	var (
		latest string
		err    error
	)

	if channel == release.ChannelStable {
		latest, err = versions.LatestStable(ctx)
	} else {
		latest, err = versions.LatestNightly(ctx)
	}

	if err != nil {
		return fmt.Errorf("resolve latest version: %w", err)
	}

	logger.InfoKV(ctx, "Resolved latest version", "version", latest)

	repo := tracker.NewFileRepository(tracker.PathFor(cfg.StateDir, channel))

	prior, result, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tracking state: %w", err)
	}

	switch result {
	case tracker.NotFound:
		logger.Info(ctx, "No tracking state found, bootstrapping")
	case tracker.Corrupt:
		logger.Warn(ctx, "Tracking state is unreadable, bootstrapping with a full rebuild")
	case tracker.Found:
		logger.InfoKV(ctx, "Loaded tracking state", "builds", len(prior))
	}

	allIgnored, decisions, err := detector.Classify(ctx, latest, channel, cat, prior)
	if err != nil {
		return fmt.Errorf("classify builds: %w", err)
	}

	if allIgnored {
		logger.Info(ctx, "Everything is up to date, skipping publish")
		return nil
	}

	pub := publisher.New(processor, api, repo, publisher.WithDryRun(dryRun))

	return pub.Publish(ctx, latest, channel, cat.Names(), decisions)
}

// parseChannels maps the CLI channel selector to the release tracks to process.
func parseChannels(s string) ([]release.Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return []release.Channel{release.ChannelStable, release.ChannelNightly}, nil
	case string(release.ChannelStable):
		return []release.Channel{release.ChannelStable}, nil
	case string(release.ChannelNightly):
		return []release.Channel{release.ChannelNightly}, nil
	default:
		return nil, fmt.Errorf("%q: %w", s, errUnknownChannel)
	}
}

package publisher

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oshokin/firmware-releaser/internal/builder"
	"github.com/oshokin/firmware-releaser/internal/domain/release"
	"github.com/oshokin/firmware-releaser/internal/logger"
	"github.com/oshokin/firmware-releaser/internal/releaseapi"
	"github.com/oshokin/firmware-releaser/internal/repository/tracker"
)

// randomBound caps the %random% filename disambiguator at six digits.
const randomBound = 1_000_000

// Option customizes publisher behavior.
type Option func(*Publisher)

// WithDryRun disables release creation, uploads and state writes while still
// exercising builds and filename rendering.
func WithDryRun(dryRun bool) Option {
	return func(p *Publisher) {
		p.dryRun = dryRun
	}
}

// WithClock overrides the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// WithRandom overrides the filename disambiguator source.
func WithRandom(randInt func(int) int) Option {
	return func(p *Publisher) {
		p.randInt = randInt
	}
}

// Publisher executes the publish phase of one channel run: it builds
// actionable decisions into assets, publishes them against a single release
// and persists the resulting tracking state.
type Publisher struct {
	// processor compiles build definitions into artifacts.
	processor builder.Processor
	// api is the remote release surface. May be nil on a dry run.
	api releaseapi.API
	// repo persists the channel's tracking state.
	repo tracker.Repository
	// dryRun stops the workflow before any remote or durable side effect.
	dryRun bool
	// now supplies the run-scoped timestamp shared by all assets.
	now func() time.Time
	// randInt supplies the filename disambiguator.
	randInt func(int) int
}

// New creates a publisher over the given collaborators.
func New(processor builder.Processor, api releaseapi.API, repo tracker.Repository, opts ...Option) *Publisher {
	p := &Publisher{
		processor: processor,
		api:       api,
		repo:      repo,
		now:       time.Now,
		randInt:   rand.Intn,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish builds and uploads every actionable decision in catalog order, then
// replaces the channel's tracking state in full.
//
// A failed upload aborts the remaining batch and the state write: the next
// scheduled run re-attempts the whole channel against the stale tracker.
func (p *Publisher) Publish(ctx context.Context, latestVersion string, channel release.Channel,
	names []string, decisions map[string]*release.Decision,
) error {
	runTime := p.now()
	assets := make([]*release.Asset, 0, len(decisions))

	for _, name := range names {
		decision, ok := decisions[name]
		if !ok || decision.Action == release.ActionIgnore {
			continue
		}

		artifactPath, err := p.processor.Process(ctx, name, decision.Definition, channel, decision.Version)
		if err != nil {
			return fmt.Errorf("process %s: %w", name, err)
		}

		// A build may legitimately be a no-op for this channel. Its decision
		// is still persisted later, but nothing is published for it this run.
		if artifactPath == "" {
			continue
		}

		filename := release.RenderFilename(decision.Definition.Template(channel), release.TemplateVars{
			Version: decision.Version,
			Now:     runTime,
			Random:  p.randInt(randomBound),
		})

		assets = append(assets, &release.Asset{
			BuildName:    name,
			Filename:     filename,
			ArtifactPath: artifactPath,
			Action:       decision.Action,
			AssetID:      decision.AssetID,
		})

		logger.InfoKV(ctx, "Staged asset",
			"build", name, "filename", filename, "action", decision.Action)
	}

	if p.dryRun {
		logger.InfoKV(ctx, "Dry run, skipping release creation and state write",
			"channel", channel, "staged_assets", len(assets))

		return nil
	}

	// A run that decided work was needed but produced nothing leaves the
	// tracker untouched.
	if len(assets) == 0 {
		logger.InfoKV(ctx, "No artifacts produced, tracking state left as is", "channel", channel)
		return nil
	}

	releaseID, err := p.api.CreateRelease(ctx, latestVersion, channel, runTime)
	if err != nil {
		return fmt.Errorf("create release: %w", err)
	}

	for _, asset := range assets {
		assetID, err := p.api.UploadAsset(ctx, releaseID, asset)
		if err != nil {
			return fmt.Errorf("upload %s: %w", asset.Filename, err)
		}

		decisions[asset.BuildName].AssetID = assetID
	}

	state := make(release.TrackingState, len(decisions))
	for name, decision := range decisions {
		state[name] = decision.Tracked()
	}

	if err = p.repo.Save(ctx, state); err != nil {
		return fmt.Errorf("persist tracking state: %w", err)
	}

	logger.InfoKV(ctx, "Published release",
		"channel", channel, "version", latestVersion, "assets", len(assets))

	return nil
}

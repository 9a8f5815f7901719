package release

// Channel is a release track with independent tracking state and gating rules.
type Channel string

const (
	// ChannelStable is the stable release track.
	ChannelStable Channel = "stable"
	// ChannelNightly is the nightly release track.
	ChannelNightly Channel = "nightly"
)

// Valid reports whether the channel is one of the known release tracks.
func (c Channel) Valid() bool {
	return c == ChannelStable || c == ChannelNightly
}

// Action is the per-build classification computed each run.
type Action string

const (
	// ActionCreate publishes the build as a new asset.
	ActionCreate Action = "create"
	// ActionUpdate replaces the previously uploaded asset.
	ActionUpdate Action = "update"
	// ActionIgnore leaves the build untouched this run.
	ActionIgnore Action = "ignore"
)

// BuildDefinition is the static, name-keyed specification of one distributable.
// It is loaded from the build catalog and never mutated by the core.
type BuildDefinition struct {
	// Active disables the build entirely when set to false. Defaults to true.
	Active *bool `yaml:"active,omitempty"`
	// Only restricts the build to a single channel when set.
	Only Channel `yaml:"only,omitempty"`
	// MinVersion gates the build on the stable channel: the build is skipped
	// while the latest stable version is below it.
	MinVersion string `yaml:"min_version,omitempty"`
	// File is the build's defining source file, fingerprinted to detect
	// silent definition changes.
	File string `yaml:"file"`
	// Templates maps a channel to the artifact filename template for it.
	Templates map[Channel]string `yaml:"templates"`
}

// IsActive reports whether the build participates in runs at all.
func (d *BuildDefinition) IsActive() bool {
	return d.Active == nil || *d.Active
}

// Template returns the filename template for the given channel.
func (d *BuildDefinition) Template(channel Channel) string {
	return d.Templates[channel]
}

// TrackedBuild is the persisted record for one build name from the previous run.
type TrackedBuild struct {
	// Version is the last-published version string.
	Version string `json:"version"`
	// ContentDigest is the hex digest of the build file at last action.
	ContentDigest string `json:"content_digest"`
	// AssetID identifies the previously uploaded remote asset, zero if none.
	AssetID int64 `json:"asset_id,omitempty"`
}

// TrackingState maps build names to their persisted records for one channel.
// It is loaded at the start of a run and replaced wholesale at the end.
type TrackingState map[string]TrackedBuild

// Decision is the in-memory classification of one build for the current run.
type Decision struct {
	// Version is the version the build is evaluated against.
	Version string
	// ContentDigest is the hex digest of the build file computed this run.
	ContentDigest string
	// Definition is the catalog entry the decision was derived from.
	Definition *BuildDefinition
	// Action is the classification outcome.
	Action Action
	// AssetID is the carried-forward remote asset identifier, zero if none.
	AssetID int64
}

// Tracked strips the transient fields from the decision, yielding the record
// persisted as the next run's tracking state.
func (d *Decision) Tracked() TrackedBuild {
	return TrackedBuild{
		Version:       d.Version,
		ContentDigest: d.ContentDigest,
		AssetID:       d.AssetID,
	}
}

// Asset is an artifact staged for upload during the publish phase of one run.
type Asset struct {
	// BuildName is the catalog name the artifact was produced for.
	BuildName string
	// Filename is the rendered artifact filename.
	Filename string
	// ArtifactPath is the local path of the produced artifact.
	ArtifactPath string
	// Action is the classification that scheduled the upload.
	Action Action
	// AssetID is the remote asset being replaced, zero for new assets.
	AssetID int64
}

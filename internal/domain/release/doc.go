// Package release contains core domain types for the release synchronization
// logic.
//
// It defines BuildDefinition (the catalog entry for one distributable),
// TrackedBuild and TrackingState (the durable per-channel record of what was
// last published), Decision (the per-run classification) and Asset (an
// artifact staged for upload), plus artifact filename template rendering.
package release

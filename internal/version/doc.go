// Package version exposes the build metadata of the firmware-releaser binary.
//
// Version, Commit and BuildTime are injected via Go ldflags and default to
// local-build values. Short feeds version comparisons and logs, Full renders
// the complete version line for CLI output.
package version

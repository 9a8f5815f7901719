// Package config defines run settings shared by the synchronizer and provides
// helpers to load and validate them in YAML format.
//
// The Config type points at the build catalog, the tracking state directory,
// the build command, the channel version endpoints and the release target.
package config

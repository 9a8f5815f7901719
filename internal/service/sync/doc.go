// Package sync wires the synchronization run together: run guard,
// configuration, catalog, version resolution, change detection and
// publishing, processed per channel in sequence.
package sync

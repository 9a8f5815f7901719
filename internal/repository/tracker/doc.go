// Package tracker persists the per-channel tracking state: the durable record
// of what was last published for every build name.
//
// Loading distinguishes Found, NotFound and Corrupt outcomes explicitly; the
// latter two degrade to bootstrap classification instead of failing the run.
// Saving is transactional (write to a temporary file, then rename).
package tracker

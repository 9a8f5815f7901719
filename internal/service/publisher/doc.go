// Package publisher turns a run's decision set into an idempotent publish
// workflow: build actionable entries, render artifact filenames, create one
// release per channel run, upload assets sequentially and persist the new
// tracking state.
package publisher

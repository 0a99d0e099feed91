// Package testutil provides fluent builders for notes, fingerprints and
// dialogues used across the engine's test suites. Internal so the public API
// surface stays limited to production types.
package testutil

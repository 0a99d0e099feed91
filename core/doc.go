// Package core defines the shared domain types of the echo engine — notes,
// fingerprints, echo matches, verdicts and dialogue messages — plus the error
// taxonomy every component reports against. It is dependency-free so both the
// engine packages and provider adapters can import it without cycles.
package core

// Package services defines shared error and context utilities consumed by the
// sort pipeline and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and pipeline stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent process exit codes.
//
// Use these helpers when wiring new pipeline logic so failure reporting stays
// uniform between the one-shot and watch modes.
package services

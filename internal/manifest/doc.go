// Package manifest persists a record of every sort run in SQLite.
//
// Each run stores its identifier, timing, input root, template and outcome,
// together with one row per attempted move. The record is informational: it
// backs the history command and is never replayed to reverse a run.
package manifest

// Package organizer turns a directory of photos into an execution plan and
// applies it.
//
// A cycle runs Planner, Validate and Applier in sequence. The planner scans
// the input tree and resolves each file's destination through a token
// registry, leaving unresolvable files untouched. Validation rejects plans
// with empty or colliding destinations before anything is changed. The
// applier asks for confirmation, creates directories, and moves files one at
// a time, collecting every failure into a Report instead of stopping. Runner
// wires the three together, assigns the run id, and records the outcome to
// the manifest when one is configured.
package organizer

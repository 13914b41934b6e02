// Package watch re-runs a sort cycle when files are created in a directory.
//
// The watch is non-recursive and reacts to create events only. Bursts of
// events are debounced into one trigger, and at most one cycle runs at a
// time: triggers that arrive mid-cycle collapse into a single follow-up run.
package watch

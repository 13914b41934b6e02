package organizer

import (
	"errors"
	"fmt"
)

// Outcome values reported by Report.Outcome.
const (
	OutcomeAborted   = "aborted"
	OutcomeCompleted = "completed"
	OutcomePartial   = "partial"
)

// MoveError records a move that was attempted and failed.
type MoveError struct {
	Source      string
	Destination string
	Err         error
}

func (e MoveError) Error() string {
	return fmt.Sprintf("move %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e MoveError) Unwrap() error { return e.Err }

// DirError records a directory that could not be created.
type DirError struct {
	Dir string
	Err error
}

func (e DirError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Dir, e.Err)
}

func (e DirError) Unwrap() error { return e.Err }

// Report is the result of applying a plan.
type Report struct {
	Aborted     bool
	DirsCreated []string
	DirErrors   []DirError
	Moved       []PlannedMove
	Skipped     []PlannedMove
	Failed      []MoveError
}

// Outcome classifies the run as aborted, completed, or partial.
func (r Report) Outcome() string {
	switch {
	case r.Aborted:
		return OutcomeAborted
	case len(r.Failed) > 0 || len(r.Skipped) > 0 || len(r.DirErrors) > 0:
		return OutcomePartial
	default:
		return OutcomeCompleted
	}
}

// Summary is a one-line description of the report.
func (r Report) Summary() string {
	if r.Aborted {
		return "Aborted: no changes made"
	}
	s := fmt.Sprintf("Moved %d file(s), skipped %d, failed %d; created %d dir(s)",
		len(r.Moved), len(r.Skipped), len(r.Failed), len(r.DirsCreated))
	if n := len(r.DirErrors); n > 0 {
		s += fmt.Sprintf(", %d dir(s) failed", n)
	}
	return s
}

// Err joins every move and directory failure, or returns nil.
func (r Report) Err() error {
	if len(r.Failed) == 0 && len(r.DirErrors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.DirErrors)+len(r.Failed))
	for _, e := range r.DirErrors {
		errs = append(errs, e)
	}
	for _, e := range r.Failed {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

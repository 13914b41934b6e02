package organizer

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrEmptyTarget reports a move whose destination resolved to "".
	ErrEmptyTarget = errors.New("found an empty target")
	// ErrCountMismatch reports that two or more sources share a destination.
	ErrCountMismatch = errors.New("source and target file counts aren't equal")
)

// CountMismatchError carries the distinct source and destination counts of a
// plan that failed the cardinality check.
type CountMismatchError struct {
	Sources int
	Targets int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: %d file(s) for source, %d file(s) for target", ErrCountMismatch, e.Sources, e.Targets)
}

// Is matches ErrCountMismatch.
func (e *CountMismatchError) Is(target error) bool { return target == ErrCountMismatch }

// Validate rejects plans with an empty destination, then plans where the
// number of distinct destinations differs from the number of distinct
// sources. Paths are compared after filepath.Clean. Passing does not prove a
// destination is free: a file already on disk outside the plan is only
// detected when the move is applied.
func Validate(plan ExecutionPlan) error {
	for _, m := range plan.Moves {
		if m.Destination == "" {
			return fmt.Errorf("%w: %s", ErrEmptyTarget, m.Source)
		}
	}

	sources := make(map[string]struct{}, len(plan.Moves))
	targets := make(map[string]struct{}, len(plan.Moves))
	for _, m := range plan.Moves {
		sources[filepath.Clean(m.Source)] = struct{}{}
		targets[filepath.Clean(m.Destination)] = struct{}{}
	}
	if len(sources) != len(targets) {
		return &CountMismatchError{Sources: len(sources), Targets: len(targets)}
	}
	return nil
}

// Collisions groups the sources that share a destination, for diagnostics
// after a CountMismatchError. Destinations are keyed by their cleaned path.
func Collisions(plan ExecutionPlan) map[string][]string {
	bySource := make(map[string][]string)
	for _, m := range plan.Moves {
		dst := filepath.Clean(m.Destination)
		bySource[dst] = append(bySource[dst], m.Source)
	}
	out := make(map[string][]string)
	for dst, srcs := range bySource {
		if len(srcs) > 1 {
			out[dst] = srcs
		}
	}
	return out
}

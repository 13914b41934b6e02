package manifest

import "time"

// MoveStatus is the outcome of one planned move.
type MoveStatus string

const (
	MoveStatusMoved   MoveStatus = "moved"
	MoveStatusSkipped MoveStatus = "skipped"
	MoveStatusFailed  MoveStatus = "failed"
)

// MoveRecord is one row of the moves table.
type MoveRecord struct {
	Source      string
	Destination string
	Status      MoveStatus
	Error       string
}

// RunRecord describes a finished sort run.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputRoot  string
	Template   string
	Outcome    string
	Moves      []MoveRecord
}

// RunSummary is a run row with its per-status counts.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputRoot  string
	Template   string
	Outcome    string
	Moved      int
	Skipped    int
	Failed     int
}

// Duration returns how long the run took.
func (s RunSummary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func (r RunRecord) counts() (moved, skipped, failed int) {
	for _, m := range r.Moves {
		switch m.Status {
		case MoveStatusMoved:
			moved++
		case MoveStatusSkipped:
			skipped++
		case MoveStatusFailed:
			failed++
		}
	}
	return moved, skipped, failed
}

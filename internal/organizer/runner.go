package organizer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rawsort/internal/logging"
	"rawsort/internal/manifest"
	"rawsort/internal/services"
)

// Recorder persists finished runs.
type Recorder interface {
	RecordRun(ctx context.Context, rec manifest.RunRecord) error
}

// RunOptions describes one cycle.
type RunOptions struct {
	InputRoot string
	Template  string
	// DryRun plans and validates without touching the filesystem.
	DryRun    bool
	Execution ExecutionOptions
	Confirm   Confirm
}

// CycleResult is what one cycle produced.
type CycleResult struct {
	RunID      string
	Plan       ExecutionPlan
	Report     Report
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Runner executes full plan, validate, apply cycles.
type Runner struct {
	planner  *Planner
	applier  *Applier
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewRunner wires a planner and applier. recorder may be nil.
func NewRunner(planner *Planner, applier *Applier, recorder Recorder, logger *slog.Logger) *Runner {
	return &Runner{
		planner:  planner,
		applier:  applier,
		recorder: recorder,
		logger:   logging.NewComponentLogger(logger, "runner"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// RunCycle runs one cycle. Planning and validation failures are returned as
// errors before anything is changed; move failures are reported in
// CycleResult.Report.
func (r *Runner) RunCycle(ctx context.Context, opts RunOptions) (CycleResult, error) {
	result := CycleResult{RunID: r.newID(), DryRun: opts.DryRun, StartedAt: r.now()}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("sort cycle started",
		logging.String("input_root", opts.InputRoot),
		logging.String("template", opts.Template),
		logging.Bool("dry_run", opts.DryRun),
		logging.String(logging.FieldEventType, "cycle_started"),
	)

	plan, err := r.planner.Plan(ctx, opts.InputRoot, opts.Template)
	if err != nil {
		if ctx.Err() == nil {
			logging.ErrorWithContext(logger, "planning failed", "plan_failed",
				logging.String("input_root", opts.InputRoot),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the input directory exists and is readable"),
			)
		}
		return result, err
	}
	result.Plan = plan

	if err := Validate(plan); err != nil {
		for dst, srcs := range Collisions(plan) {
			logger.Debug("destination collision", logging.String("destination", dst), logging.Any("sources", srcs))
		}
		return result, services.Wrap(services.ErrValidation, "validating", "validate plan", "Plan rejected; adjust the template so every file gets a distinct destination", err)
	}

	if opts.DryRun {
		result.FinishedAt = r.now()
		logger.Info("dry run planned",
			logging.Int("moves", len(plan.Moves)),
			logging.Int("dirs_to_create", len(plan.DirsToCreate)),
			logging.String(logging.FieldEventType, "dry_run"),
		)
		return result, nil
	}

	if plan.Empty() {
		result.FinishedAt = r.now()
		logger.Info("nothing to sort", logging.Int("excluded", plan.Excluded), logging.String(logging.FieldEventType, "cycle_empty"))
		return result, nil
	}

	report, err := r.applier.Execute(ctx, plan, opts.Execution, opts.Confirm)
	if err != nil {
		return result, err
	}
	result.Report = report
	result.FinishedAt = r.now()

	if r.recorder != nil && !report.Aborted {
		if err := r.recorder.RecordRun(ctx, buildRecord(result, opts)); err != nil {
			logging.WarnWithContext(logger, "manifest record failed", "manifest_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check manifest.path permissions"),
				logging.String(logging.FieldImpact, "run is missing from history"),
			)
		}
	}

	logger.Info("sort cycle finished",
		logging.String("outcome", report.Outcome()),
		logging.String("summary", report.Summary()),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
		logging.String(logging.FieldEventType, "cycle_finished"),
	)
	return result, nil
}

func buildRecord(result CycleResult, opts RunOptions) manifest.RunRecord {
	rec := manifest.RunRecord{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		InputRoot:  opts.InputRoot,
		Template:   opts.Template,
		Outcome:    result.Report.Outcome(),
	}
	for _, m := range result.Report.Moved {
		rec.Moves = append(rec.Moves, manifest.MoveRecord{Source: m.Source, Destination: m.Destination, Status: manifest.MoveStatusMoved})
	}
	for _, m := range result.Report.Skipped {
		rec.Moves = append(rec.Moves, manifest.MoveRecord{Source: m.Source, Destination: m.Destination, Status: manifest.MoveStatusSkipped})
	}
	for _, m := range result.Report.Failed {
		move := manifest.MoveRecord{Source: m.Source, Destination: m.Destination, Status: manifest.MoveStatusFailed}
		if m.Err != nil {
			move.Error = m.Err.Error()
		}
		rec.Moves = append(rec.Moves, move)
	}
	return rec
}

package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"rawsort/internal/fileutil"
	"rawsort/internal/logging"
	"rawsort/internal/services"
)

// Confirm answers a yes/no question. It may be called any number of times
// during one Execute.
type Confirm func(question string) bool

var (
	// AlwaysYes accepts every question.
	AlwaysYes Confirm = func(string) bool { return true }
	// AlwaysNo declines every question.
	AlwaysNo Confirm = func(string) bool { return false }
)

// ExecutionOptions controls how conflicts and prompts are handled.
type ExecutionOptions struct {
	// ForceOverwrite replaces existing destinations without asking.
	ForceOverwrite bool
	// NoPrompts skips the top-level confirmation.
	NoPrompts bool
}

const dirPerm = 0o755

// Explain describes what applying plan would do.
func Explain(plan ExecutionPlan) string {
	return fmt.Sprintf("This will create %d dir(s) and move %d file(s)", len(plan.DirsToCreate), len(plan.Moves))
}

// Applier executes plans against a filesystem.
type Applier struct {
	fs     fileutil.FS
	logger *slog.Logger
}

// NewApplier returns an applier mutating fsys. A nil fsys uses the host filesystem.
func NewApplier(fsys fileutil.FS, logger *slog.Logger) *Applier {
	if fsys == nil {
		fsys = fileutil.OSFS{}
	}
	return &Applier{fs: fsys, logger: logging.NewComponentLogger(logger, "applier")}
}

// Execute applies plan. Declining the top-level question returns an aborted
// report with nothing changed. Individual failures are collected in the report
// and never stop the remaining moves; the returned error is reserved for a
// context cancelled before anything started.
func (a *Applier) Execute(ctx context.Context, plan ExecutionPlan, opts ExecutionOptions, confirm Confirm) (Report, error) {
	ctx = services.WithStage(ctx, "applying")
	logger := logging.WithContext(ctx, a.logger)
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if confirm == nil {
		confirm = AlwaysNo
	}

	if !opts.NoPrompts && !confirm(Explain(plan)+". Continue?") {
		logger.Info("execution declined", logging.String(logging.FieldEventType, "execution_aborted"))
		return Report{Aborted: true}, nil
	}

	var report Report
	for _, dir := range plan.DirsToCreate {
		if err := a.fs.MkdirAll(dir, dirPerm); err != nil {
			report.DirErrors = append(report.DirErrors, DirError{Dir: dir, Err: err})
			logging.WarnWithContext(logger, "directory creation failed", "dir_create_failed",
				logging.String("dir", dir),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the output root"),
				logging.String(logging.FieldImpact, "moves into this directory will fail"),
			)
			continue
		}
		report.DirsCreated = append(report.DirsCreated, dir)
	}

	for _, move := range plan.Moves {
		a.apply(logger, &report, move, opts, confirm)
	}

	logger.Info("execution finished",
		logging.String("outcome", report.Outcome()),
		logging.Int("moved", len(report.Moved)),
		logging.Int("skipped", len(report.Skipped)),
		logging.Int("failed", len(report.Failed)),
		logging.String(logging.FieldEventType, "execution_finished"),
	)
	return report, nil
}

func (a *Applier) apply(logger *slog.Logger, report *Report, move PlannedMove, opts ExecutionOptions, confirm Confirm) {
	if filepath.Clean(move.Source) == filepath.Clean(move.Destination) {
		report.Skipped = append(report.Skipped, move)
		logger.Debug("file already in place", logging.String("source", move.Source))
		return
	}
	_, statErr := a.fs.Stat(move.Destination)
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		report.Failed = append(report.Failed, MoveError{Source: move.Source, Destination: move.Destination, Err: fmt.Errorf("stat destination: %w", statErr)})
		logging.WarnWithContext(logger, "destination check failed", "move_failed",
			logging.String("source", move.Source),
			logging.String("destination", move.Destination),
			logging.Error(statErr),
			logging.String(logging.FieldImpact, "file left at its original location"),
		)
		return
	}
	if statErr == nil && !opts.ForceOverwrite {
		if !confirm(fmt.Sprintf("File %q exists. Overwrite?", move.Destination)) {
			report.Skipped = append(report.Skipped, move)
			logger.Info("existing destination kept",
				logging.String("source", move.Source),
				logging.String("destination", move.Destination),
				logging.String(logging.FieldEventType, "move_skipped"),
			)
			return
		}
	}
	if err := a.fs.Move(move.Source, move.Destination); err != nil {
		report.Failed = append(report.Failed, MoveError{Source: move.Source, Destination: move.Destination, Err: err})
		logging.WarnWithContext(logger, "move failed", "move_failed",
			logging.String("source", move.Source),
			logging.String("destination", move.Destination),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file left at its original location"),
		)
		return
	}
	report.Moved = append(report.Moved, move)
	logger.Debug("file moved",
		logging.String("source", move.Source),
		logging.String("destination", move.Destination),
	)
}

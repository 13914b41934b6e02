package organizer_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"rawsort/internal/logging"
	"rawsort/internal/manifest"
	"rawsort/internal/organizer"
	"rawsort/internal/services"
	"rawsort/internal/testsupport"
)

type memoryRecorder struct {
	runs []manifest.RunRecord
}

func (m *memoryRecorder) RecordRun(_ context.Context, rec manifest.RunRecord) error {
	m.runs = append(m.runs, rec)
	return nil
}

func newRunner(fsys *testsupport.RecordingFS, recorder organizer.Recorder) *organizer.Runner {
	planner := organizer.NewPlanner(newRegistry(), logging.NewNop(), organizer.PlannerOptions{FS: fsys})
	applier := organizer.NewApplier(fsys, logging.NewNop())
	return organizer.NewRunner(planner, applier, recorder, logging.NewNop())
}

func TestRunCycleDryRunNeverMutates(t *testing.T) {
	base, input := seedPhotos(t)
	before := testsupport.SnapshotTree(t, base)
	fsys := &testsupport.RecordingFS{}
	recorder := &memoryRecorder{}

	result, err := newRunner(fsys, recorder).RunCycle(context.Background(), organizer.RunOptions{
		InputRoot: input,
		Template:  filepath.Join(base, "sorted", "[year]", "[filename]"),
		DryRun:    true,
		Execution: organizer.ExecutionOptions{ForceOverwrite: true, NoPrompts: true},
		Confirm:   organizer.AlwaysYes,
	})
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if !result.DryRun || len(result.Plan.Moves) != 2 || len(result.Plan.DirsToCreate) != 2 {
		t.Fatalf("unexpected dry-run result %+v", result)
	}
	if fsys.Mutations() != 0 {
		t.Fatalf("dry run mutated filesystem: mkdirs=%v moves=%v", fsys.Mkdirs(), fsys.Moves())
	}
	if len(recorder.runs) != 0 {
		t.Fatal("dry run must not be recorded")
	}
	if after := testsupport.SnapshotTree(t, base); !reflect.DeepEqual(before, after) {
		t.Fatal("tree changed during dry run")
	}
}

func TestRunCycleAppliesAndRecords(t *testing.T) {
	base, input := seedPhotos(t)
	fsys := &testsupport.RecordingFS{}
	recorder := &memoryRecorder{}
	template := filepath.Join(base, "sorted", "[year]", "[filename]")

	result, err := newRunner(fsys, recorder).RunCycle(context.Background(), organizer.RunOptions{
		InputRoot: input,
		Template:  template,
		Execution: organizer.ExecutionOptions{NoPrompts: true},
	})
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}
	if result.Report.Outcome() != organizer.OutcomeCompleted || len(result.Report.Moved) != 2 {
		t.Fatalf("unexpected report %+v", result.Report)
	}
	if len(recorder.runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(recorder.runs))
	}
	rec := recorder.runs[0]
	if rec.ID != result.RunID || rec.Template != template || rec.InputRoot != input || rec.Outcome != organizer.OutcomeCompleted {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(rec.Moves) != 2 || rec.Moves[0].Status != manifest.MoveStatusMoved {
		t.Fatalf("unexpected recorded moves %+v", rec.Moves)
	}
}

func TestRunCycleValidationFailureStopsBeforeMutation(t *testing.T) {
	input := filepath.Join(t.TempDir(), "incoming")
	testsupport.WritePhoto(t, filepath.Join(input, "a.jpg"), testsupport.Photo{DateTimeOriginal: "2017:11:04 12:45:23"})
	testsupport.WritePhoto(t, filepath.Join(input, "b.jpg"), testsupport.Photo{DateTimeOriginal: "2017:12:24 18:00:00"})
	fsys := &testsupport.RecordingFS{}
	recorder := &memoryRecorder{}

	_, err := newRunner(fsys, recorder).RunCycle(context.Background(), organizer.RunOptions{
		InputRoot: input,
		Template:  filepath.Join(t.TempDir(), "[year].jpg"),
		Execution: organizer.ExecutionOptions{NoPrompts: true},
	})
	if !errors.Is(err, services.ErrValidation) || !errors.Is(err, organizer.ErrCountMismatch) {
		t.Fatalf("expected validation count mismatch, got %v", err)
	}
	var mismatch *organizer.CountMismatchError
	if !errors.As(err, &mismatch) || mismatch.Sources != 2 || mismatch.Targets != 1 {
		t.Fatalf("expected CountMismatch(2, 1), got %v", err)
	}
	if fsys.Mutations() != 0 || len(recorder.runs) != 0 {
		t.Fatalf("validation failure must not mutate or record")
	}
}

func TestRunCycleAbortIsNotRecorded(t *testing.T) {
	base, input := seedPhotos(t)
	fsys := &testsupport.RecordingFS{}
	recorder := &memoryRecorder{}

	result, err := newRunner(fsys, recorder).RunCycle(context.Background(), organizer.RunOptions{
		InputRoot: input,
		Template:  filepath.Join(base, "sorted", "[year]", "[filename]"),
		Confirm:   organizer.AlwaysNo,
	})
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if !result.Report.Aborted || fsys.Mutations() != 0 || len(recorder.runs) != 0 {
		t.Fatalf("unexpected abort handling: %+v mutations=%d runs=%d", result.Report, fsys.Mutations(), len(recorder.runs))
	}
}

func TestRunCycleEmptyInput(t *testing.T) {
	input := t.TempDir()
	recorder := &memoryRecorder{}
	result, err := newRunner(&testsupport.RecordingFS{}, recorder).RunCycle(context.Background(), organizer.RunOptions{
		InputRoot: input,
		Template:  "[year]",
		Confirm:   organizer.AlwaysNo,
	})
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if result.Report.Aborted || result.Report.Outcome() != organizer.OutcomeCompleted || len(recorder.runs) != 0 {
		t.Fatalf("empty input should be a quiet no-op, got %+v", result)
	}
}

func TestRunCycleWithSQLiteManifest(t *testing.T) {
	base, input := seedPhotos(t)
	store, err := manifest.Open(filepath.Join(base, "state", "manifest.db"))
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer store.Close()

	result, err := newRunner(&testsupport.RecordingFS{}, store).RunCycle(context.Background(), organizer.RunOptions{
		InputRoot: input,
		Template:  filepath.Join(base, "sorted", "[year]", "[filename]"),
		Execution: organizer.ExecutionOptions{NoPrompts: true},
	})
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	moves, err := store.RunMoves(context.Background(), result.RunID)
	if err != nil || len(moves) != 2 {
		t.Fatalf("expected 2 recorded moves, got %v err=%v", moves, err)
	}
}

func TestRunCycleLogsPlanningFailure(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	fsys := &testsupport.RecordingFS{}
	planner := organizer.NewPlanner(newRegistry(), logger, organizer.PlannerOptions{FS: fsys})
	runner := organizer.NewRunner(planner, organizer.NewApplier(fsys, logger), nil, logger)

	missing := filepath.Join(t.TempDir(), "missing")
	_, err = runner.RunCycle(context.Background(), organizer.RunOptions{InputRoot: missing, Template: "[filename]"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	line := buf.String()
	for _, fragment := range []string{"ERROR", "planning failed", "event_type=plan_failed", "error_hint="} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if fsys.Mutations() != 0 {
		t.Fatalf("failed plan mutated filesystem: %v %v", fsys.Mkdirs(), fsys.Moves())
	}
}

package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"rawsort/internal/fileutil"
	"rawsort/internal/logging"
	"rawsort/internal/services"
	"rawsort/internal/tokens"
)

// PlannedMove is one source file and the destination it resolved to.
type PlannedMove struct {
	Source      string
	Destination string
}

// ExecutionPlan is the full set of changes a cycle will make. Moves are
// sorted by source; DirsToCreate is sorted, deduplicated and holds only
// directories missing when the plan was built.
type ExecutionPlan struct {
	DirsToCreate []string
	Moves        []PlannedMove
	// Excluded counts files skipped because their destination could not be resolved.
	Excluded int
}

// Empty reports whether the plan would change nothing.
func (p ExecutionPlan) Empty() bool {
	return len(p.Moves) == 0 && len(p.DirsToCreate) == 0
}

// DestinationResolver resolves a template for one file.
type DestinationResolver interface {
	Resolve(template string, entry tokens.Entry) (string, error)
}

// PlannerOptions tunes the scan.
type PlannerOptions struct {
	// Workers above one resolves metadata concurrently.
	Workers int
	// SkipHidden ignores files and directories whose name starts with a dot.
	SkipHidden bool
	// Extensions, when set, restricts the scan to these lowercase extensions
	// without the dot.
	Extensions []string
	// FS answers the existence checks for DirsToCreate. Defaults to fileutil.OSFS.
	FS fileutil.FS
}

// Planner builds execution plans.
type Planner struct {
	resolver DestinationResolver
	opts     PlannerOptions
	exts     map[string]struct{}
	logger   *slog.Logger
}

// NewPlanner constructs a planner resolving destinations through resolver.
func NewPlanner(resolver DestinationResolver, logger *slog.Logger, opts PlannerOptions) *Planner {
	if opts.FS == nil {
		opts.FS = fileutil.OSFS{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	var exts map[string]struct{}
	if len(opts.Extensions) > 0 {
		exts = make(map[string]struct{}, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
	return &Planner{
		resolver: resolver,
		opts:     opts,
		exts:     exts,
		logger:   logging.NewComponentLogger(logger, "planner"),
	}
}

type resolved struct {
	move PlannedMove
	err  error
}

// Plan scans inputRoot and resolves template for every file found.
func (p *Planner) Plan(ctx context.Context, inputRoot, template string) (ExecutionPlan, error) {
	ctx = services.WithStage(ctx, "planning")
	logger := logging.WithContext(ctx, p.logger)

	info, err := os.Stat(inputRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ExecutionPlan{}, services.Wrap(services.ErrNotFound, "planning", "scan input", "Input directory does not exist", err)
		}
		return ExecutionPlan{}, services.Wrap(services.ErrTransient, "planning", "scan input", "Unable to read input directory", err)
	}
	if !info.IsDir() {
		return ExecutionPlan{}, services.Wrap(services.ErrValidation, "planning", "scan input", "Input path is not a directory: "+inputRoot, nil)
	}

	entries, err := p.scan(ctx, logger, inputRoot)
	if err != nil {
		return ExecutionPlan{}, err
	}

	results, err := p.resolveAll(ctx, template, entries)
	if err != nil {
		return ExecutionPlan{}, err
	}

	plan := ExecutionPlan{}
	for i, res := range results {
		if res.err != nil {
			plan.Excluded++
			logger.Debug("file excluded from plan",
				logging.String("source", entries[i].Path),
				logging.Error(res.err),
				logging.String(logging.FieldEventType, "file_excluded"),
			)
			continue
		}
		plan.Moves = append(plan.Moves, res.move)
	}
	sort.Slice(plan.Moves, func(i, j int) bool { return plan.Moves[i].Source < plan.Moves[j].Source })
	plan.DirsToCreate = p.missingDirs(plan.Moves)

	logger.Info("plan built",
		logging.String("input_root", inputRoot),
		logging.Int("moves", len(plan.Moves)),
		logging.Int("dirs_to_create", len(plan.DirsToCreate)),
		logging.Int("excluded", plan.Excluded),
		logging.String(logging.FieldEventType, "plan_built"),
	)
	return plan, nil
}

func (p *Planner) scan(ctx context.Context, logger *slog.Logger, root string) ([]tokens.Entry, error) {
	var entries []tokens.Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Debug("skipping unreadable entry", logging.String("path", path), logging.Error(walkErr))
			return nil
		}
		if path != root && p.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		entry := tokens.NewEntry(path)
		if p.exts != nil {
			if _, ok := p.exts[strings.ToLower(entry.Ext)]; !ok {
				return nil
			}
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrTransient, "planning", "scan input", "Failed to walk input directory", err)
	}
	return entries, nil
}

// resolveAll keeps results index-aligned with entries so the plan does not
// depend on worker scheduling.
func (p *Planner) resolveAll(ctx context.Context, template string, entries []tokens.Entry) ([]resolved, error) {
	results := make([]resolved, len(entries))
	resolveOne := func(i int) {
		dst, err := p.resolver.Resolve(template, entries[i])
		results[i] = resolved{move: PlannedMove{Source: entries[i].Path, Destination: dst}, err: err}
	}

	if p.opts.Workers <= 1 || len(entries) < 2 {
		for i := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			resolveOne(i)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolveOne(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Planner) missingDirs(moves []PlannedMove) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, m := range moves {
		if m.Destination == "" {
			continue
		}
		parent := filepath.Dir(m.Destination)
		if parent == "." || parent == m.Destination {
			continue
		}
		if _, ok := seen[parent]; ok {
			continue
		}
		seen[parent] = struct{}{}
		if _, err := p.opts.FS.Stat(parent); err == nil {
			continue
		}
		dirs = append(dirs, parent)
	}
	sort.Strings(dirs)
	return dirs
}

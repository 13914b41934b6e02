package main

import (
	"log/slog"

	"rawsort/internal/config"
	"rawsort/internal/exif"
	"rawsort/internal/manifest"
	"rawsort/internal/organizer"
	"rawsort/internal/tokens"
)

// newRegistry returns the token registry shared by every cycle of a process.
func newRegistry(policy string) *tokens.Registry {
	return tokens.Builtin(tokens.NewRegistry(exif.NewReader(exif.DatePolicy(policy))))
}

// pipeline owns the collaborators of a sort invocation.
type pipeline struct {
	runner *organizer.Runner
	store  *manifest.Store
}

func (p *pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	planner := organizer.NewPlanner(newRegistry(cfg.Sort.DatePolicy), logger, organizer.PlannerOptions{
		Workers:    cfg.Sort.Workers,
		SkipHidden: cfg.Sort.SkipHidden,
		Extensions: cfg.Sort.Extensions,
	})
	applier := organizer.NewApplier(nil, logger)

	p := &pipeline{}
	var recorder organizer.Recorder
	if cfg.Manifest.Enabled {
		store, err := manifest.Open(cfg.Manifest.Path)
		if err != nil {
			return nil, err
		}
		p.store = store
		recorder = store
	}
	p.runner = organizer.NewRunner(planner, applier, recorder, logger)
	return p, nil
}

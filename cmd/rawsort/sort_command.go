package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rawsort/internal/config"
	"rawsort/internal/logging"
	"rawsort/internal/organizer"
	"rawsort/internal/services"
	"rawsort/internal/watch"
)

type sortFlags struct {
	template   string
	dryRun     bool
	force      bool
	yes        bool
	watchDir   string
	watch      bool
	datePolicy string
	workers    int
}

func bindSortFlags(cmd *cobra.Command, f *sortFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.template, "out", "o", "", "Destination template (see `rawsort tokens`)")
	flags.BoolVarP(&f.dryRun, "dryrun", "d", false, "Show what would happen without changing anything")
	flags.BoolVarP(&f.force, "force", "f", false, "Overwrite existing destination files")
	flags.BoolVarP(&f.yes, "yes", "y", false, "Answer yes to every prompt")
	flags.StringVarP(&f.watchDir, "watch", "w", "", "Watch `DIR` and re-run when files are added")
	flags.BoolVar(&f.watch, "watch-input", false, "Watch the input directory and re-run when files are added")
	flags.StringVar(&f.datePolicy, "date-policy", "", "Missing date handling: epoch, exclude, or filename")
	flags.IntVar(&f.workers, "workers", 0, "Files decoded concurrently")
}

func newSortCommand(ctx *commandContext) *cobra.Command {
	flags := &sortFlags{}
	cmd := &cobra.Command{
		Use:   "sort [INPUT]",
		Short: "Sort photos from INPUT (defaults to sort.input_dir)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, ctx, flags, args)
		},
	}
	bindSortFlags(cmd, flags)
	return cmd
}

// applyOverrides copies flag values onto a copy of the loaded config.
func applyOverrides(cmd *cobra.Command, base *config.Config, f *sortFlags, args []string) (*config.Config, error) {
	cfg := *base
	cfg.Sort.Extensions = append([]string(nil), base.Sort.Extensions...)
	if len(args) > 0 {
		cfg.Sort.InputDir = args[0]
	}
	if cmd.Flags().Changed("out") {
		cfg.Sort.Template = f.template
	}
	if cmd.Flags().Changed("date-policy") {
		cfg.Sort.DatePolicy = f.datePolicy
	}
	if cmd.Flags().Changed("workers") {
		cfg.Sort.Workers = f.workers
	}
	if f.force {
		cfg.Sort.ForceOverwrite = true
	}
	if f.yes {
		cfg.Sort.NoPrompts = true
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch.Dir = f.watchDir
	}
	if err := cfg.Normalize(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "apply flags", "Invalid command-line value", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "apply flags", "Invalid command-line value", err)
	}
	return &cfg, nil
}

func runSort(cmd *cobra.Command, ctx *commandContext, f *sortFlags, args []string) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyOverrides(cmd, base, f, args)
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "manifest", "open", "Unable to open manifest; set manifest.enabled = false to run without it", err)
	}
	defer p.Close()

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	opts := organizer.RunOptions{
		InputRoot: cfg.Sort.InputDir,
		Template:  cfg.Sort.Template,
		DryRun:    f.dryRun,
		Execution: organizer.ExecutionOptions{
			ForceOverwrite: cfg.Sort.ForceOverwrite,
			NoPrompts:      cfg.Sort.NoPrompts,
		},
		Confirm: newConfirm(cmd.InOrStdin(), out, f.yes, logger),
	}

	runOnce := func(runCtx context.Context) error {
		result, err := p.runner.RunCycle(runCtx, opts)
		if err != nil {
			return err
		}
		if result.DryRun {
			renderDryRun(out, result.Plan, colorize)
			return nil
		}
		renderReport(out, result, colorize)
		return result.Report.Err()
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	firstErr := runOnce(baseCtx)

	if !f.watch && !cmd.Flags().Changed("watch") {
		return firstErr
	}
	watchDir := cfg.WatchDir()
	if f.watch && !cmd.Flags().Changed("watch") {
		watchDir = cfg.Sort.InputDir
	}
	if firstErr != nil {
		logging.WarnWithContext(logger, "initial cycle failed; continuing to watch", "watch_initial_failed",
			logging.Error(firstErr),
		)
	}

	sigCtx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndSort(sigCtx, cmd.OutOrStdout(), watchDir, cfg.Debounce(), logger, runOnce)
}

// watchAndSort blocks until ctx is cancelled, running a cycle after every
// debounced burst of new files in dir.
func watchAndSort(ctx context.Context, out io.Writer, dir string, debounce time.Duration, logger *slog.Logger, run watch.Handler) error {
	sub, err := watch.Subscribe(ctx, dir, watch.Options{Debounce: debounce, Logger: logger}, run)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "watch", "subscribe", "Unable to watch directory", err)
	}
	fmt.Fprintf(out, "Now watching '%s'...\n", dir)
	sub.Wait()
	return sub.Close()
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rawsort/internal/manifest"
	"rawsort/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sort runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Manifest.Enabled {
				return services.Wrap(services.ErrConfiguration, "history", "open manifest", "The manifest is disabled (manifest.enabled = false)", nil)
			}
			store, err := manifest.Open(cfg.Manifest.Path)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "history", "open manifest", "Unable to open manifest", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if id := strings.TrimSpace(runID); id != "" {
				run, err := store.Run(cmd.Context(), id)
				if err != nil {
					if errors.Is(err, manifest.ErrRunNotFound) {
						return services.Wrap(services.ErrNotFound, "history", "lookup run", "No run with id "+id, err)
					}
					return err
				}
				moves, err := store.RunMoves(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Run %s (%s) %s -> %s\n", run.ID, run.Outcome, run.InputRoot, run.Template)
				rows := make([][]string, 0, len(moves))
				for _, m := range moves {
					rows = append(rows, []string{string(m.Status), m.Source, m.Destination, m.Error})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					Headers:  []string{"Status", "Source", "Destination", "Error"},
					Rows:     rows,
					MaxWidth: pathColumnWidth,
				}))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					r.Duration().Round(time.Millisecond).String(),
					r.Outcome,
					strconv.Itoa(r.Moved),
					strconv.Itoa(r.Skipped),
					strconv.Itoa(r.Failed),
					r.InputRoot,
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				Headers: []string{"Run", "Started", "Took", "Outcome", "Moved", "Skipped", "Failed", "Input"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show the moves of one run")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list (0 for all)")
	return cmd
}

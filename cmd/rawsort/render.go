package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"rawsort/internal/organizer"
)

const pathColumnWidth = 72

type palette struct {
	ok, warn, bad, faint *color.Color
}

func newPalette(colorize bool) palette {
	p := palette{
		ok:    color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow),
		bad:   color.New(color.FgRed, color.Bold),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.faint} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func renderDryRun(w io.Writer, plan organizer.ExecutionPlan, colorize bool) {
	pal := newPalette(colorize)
	fmt.Fprintln(w, pal.warn.Sprint("Dry run: ")+organizer.Explain(plan))
	if len(plan.Moves) > 0 {
		rows := make([][]string, 0, len(plan.Moves))
		for _, m := range plan.Moves {
			rows = append(rows, []string{m.Source, m.Destination})
		}
		fmt.Fprintln(w, renderTable(tableSpec{
			Headers:  []string{"From", "To"},
			Rows:     rows,
			MaxWidth: pathColumnWidth,
		}))
	}
	fmt.Fprintln(w, "Directories to be created:")
	if len(plan.DirsToCreate) == 0 {
		fmt.Fprintln(w, pal.faint.Sprint("  (none)"))
	}
	for _, dir := range plan.DirsToCreate {
		fmt.Fprintf(w, "  %s\n", dir)
	}
	if plan.Excluded > 0 {
		fmt.Fprintln(w, pal.faint.Sprintf("%d file(s) skipped: metadata could not be read", plan.Excluded))
	}
}

func renderReport(w io.Writer, result organizer.CycleResult, colorize bool) {
	pal := newPalette(colorize)
	report := result.Report
	if len(result.Plan.Moves) == 0 && !report.Aborted {
		fmt.Fprintln(w, "Nothing to sort.")
		return
	}

	if report.Aborted {
		fmt.Fprintln(w, pal.warn.Sprint(report.Summary()))
		return
	}

	var label string
	switch report.Outcome() {
	case organizer.OutcomePartial:
		if len(report.Failed) > 0 || len(report.DirErrors) > 0 {
			label = pal.bad.Sprint("Partial")
		} else {
			label = pal.warn.Sprint("Partial")
		}
	default:
		label = pal.ok.Sprint("Done")
	}
	fmt.Fprintf(w, "%s: %s\n", label, report.Summary())

	if len(report.Failed) > 0 || len(report.DirErrors) > 0 {
		rows := make([][]string, 0, len(report.Failed)+len(report.DirErrors))
		for _, e := range report.DirErrors {
			rows = append(rows, []string{e.Dir, "", errString(e.Err)})
		}
		for _, e := range report.Failed {
			rows = append(rows, []string{e.Source, e.Destination, errString(e.Err)})
		}
		fmt.Fprintln(w, renderTable(tableSpec{
			Title:    "Failures",
			Headers:  []string{"Source", "Destination", "Error"},
			Rows:     rows,
			MaxWidth: pathColumnWidth,
		}))
	}
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintln(w, pal.faint.Sprint(strconv.Itoa(n)+" file(s) left in place"))
	}
	if result.RunID != "" {
		fmt.Fprintln(w, pal.faint.Sprint("Run "+result.RunID))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

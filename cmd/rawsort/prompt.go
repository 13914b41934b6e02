package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"rawsort/internal/logging"
	"rawsort/internal/organizer"
)

// newConfirm picks the confirmation callback for a run. --yes answers every
// question; otherwise questions go to the terminal, and without one they are
// declined.
func newConfirm(in io.Reader, out io.Writer, yes bool, logger *slog.Logger) organizer.Confirm {
	if yes {
		return organizer.AlwaysYes
	}
	if !isTerminal(in) {
		return func(question string) bool {
			logging.WarnWithContext(logger, "confirmation declined without a terminal", "prompt_declined",
				logging.String("question", question),
				logging.String(logging.FieldErrorHint, "pass --yes to run unattended"),
				logging.String(logging.FieldImpact, "nothing was changed for this question"),
			)
			return false
		}
	}
	return promptConfirm(in, out)
}

// promptConfirm asks on out and reads y/n answers from in. Anything other
// than y or yes declines; an empty answer declines.
func promptConfirm(in io.Reader, out io.Writer) organizer.Confirm {
	reader := bufio.NewReader(in)
	return func(question string) bool {
		fmt.Fprintf(out, "%s [y/N] ", question)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rawsort/internal/config"
)

func newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "tokens",
		Short:       "List the tokens available in output templates",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			descs := newRegistry(config.DatePolicyEpoch).Describe()
			rows := make([][]string, 0, len(descs))
			for _, d := range descs {
				rows = append(rows, []string{d.Key, d.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				Headers: []string{"Token", "Description"},
				Rows:    rows,
			}))
			return nil
		},
	}
}

// tokenHelp lists the tokens for the root command's long help.
func tokenHelp() string {
	var b strings.Builder
	b.WriteString("Formats:\n")
	for _, d := range newRegistry(config.DatePolicyEpoch).Describe() {
		fmt.Fprintf(&b, "  %-12s %s\n", d.Key, d.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

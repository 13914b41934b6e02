package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logFormatFlag string
	var verbose int

	ctx := newCommandContext(&configFlag, &logFormatFlag, &verbose)
	flags := &sortFlags{}

	rootCmd := &cobra.Command{
		Use:           "rawsort [INPUT]",
		Short:         "Sort RAW and other standard photo formats by capture date",
		Long:          "Sort RAW and other standard photo formats into a directory layout built from EXIF metadata.\n\n" + tokenHelp(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSort(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log output format (console or json)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase log verbosity")
	bindSortFlags(rootCmd, flags)

	rootCmd.AddCommand(newSortCommand(ctx))
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}

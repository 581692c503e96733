// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the command line with args and releases storage afterwards,
// whether or not the command succeeded.
func Execute(ctx context.Context, args []string) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "math-error",
		Short: "Browse and curate the Math ERROR study resource catalog",
		Long: `Browse subjects, open and track study resources, and manage the catalog.

math-error provides tools to:
- List subjects and their papers, notes and videos
- Search every resource by title, description or subject
- Open resources while keeping a download history
- Add and remove resources (admin)
- Switch the display theme
- Serve the catalog over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.open(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default $MATH_ERROR_CONFIG or ~/.math-error/config.yaml)")
	flags.StringVar(&a.backend, "storage", "", "Storage backend: sqlite, file, redis or memory")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(newSubjectsCmd(a))
	root.AddCommand(newSubjectCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newSearchCmd(a))
	root.AddCommand(newOpenCmd(a))
	root.AddCommand(newDownloadsCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newThemeCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newWatchCmd(a))

	return root
}

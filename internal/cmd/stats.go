// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  `Display subject, resource and download totals and the most recent downloads.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}

			st := a.lib.Catalog.Stats()
			if p.structured() {
				return p.data(st)
			}

			p.heading("Catalog Statistics")
			p.linef("==================")
			p.linef("")
			p.linef("Subjects:   %s", humanize.Comma(int64(st.TotalSubjects)))
			p.linef("Resources:  %s", humanize.Comma(int64(st.TotalResources)))
			p.linef("Downloads:  %s", humanize.Comma(int64(st.TotalDownloads)))

			if len(st.RecentDownloads) > 0 {
				p.linef("")
				p.heading("Recent downloads")
				return downloadsTable(p, st.RecentDownloads)
			}
			return nil
		},
	}

	out.addFlags(cmd)
	return cmd
}

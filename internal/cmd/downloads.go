// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mtreilly/math-error/internal/library"
)

func newDownloadsCmd(a *app) *cobra.Command {
	var (
		out   outputOptions
		limit int
	)

	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "List recently opened resources, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}

			downloads := a.lib.Activity.RecentDownloads(limit)
			if p.structured() {
				return p.data(downloads)
			}
			if len(downloads) == 0 {
				p.linef("No downloads yet. Use 'math-error open' to open a resource.")
				return nil
			}
			return downloadsTable(p, downloads)
		},
	}

	out.addFlags(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", library.MaxDownloads, "Maximum number of events to show")
	return cmd
}

func downloadsTable(p *printer, downloads []library.DownloadEvent) error {
	t := p.table("WHEN", "DATE", "SUBJECT", "TYPE", "RESOURCE")
	for _, d := range downloads {
		t.row(when(d.Timestamp), d.Date, d.SubjectID, d.ResourceType.Label(), truncate(orDash(d.ResourceName), 45))
	}
	return t.render()
}

func newHistoryCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}

			history := a.lib.Activity.SearchHistory()
			if p.structured() {
				return p.data(history)
			}
			if len(history) == 0 {
				p.linef("No searches yet.")
				return nil
			}
			t := p.table("WHEN", "QUERY", "RESULTS")
			for _, s := range history {
				t.row(when(s.Timestamp), s.Query, strconv.Itoa(s.Results))
			}
			return t.render()
		},
	}

	out.addFlags(cmd)
	return cmd
}

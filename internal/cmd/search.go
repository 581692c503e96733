// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtreilly/math-error/internal/library"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		out         outputOptions
		interactive bool
		debounce    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search resources by title, description or subject name",
		Long: `Search across every subject. Matching is a case-insensitive substring
test on resource titles and descriptions; a query that matches a subject's name
returns all of that subject's resources.

With --interactive, queries are read from stdin one per line and only the last
line typed within the debounce window is searched.

Examples:
  math-error search final
  math-error search physics -o json
  math-error search --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}
			run := func(query string) error {
				return printResults(p, query, a.lib.Catalog.Search(cmd.Context(), query))
			}

			if interactive {
				if !cmd.Flags().Changed("debounce") {
					debounce = a.cfg.Search.Debounce
				}
				return interactiveSearch(cmd.Context(), cmd.InOrStdin(), debounce, run)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(strings.Join(args, " "))
		},
	}

	out.addFlags(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read queries from stdin as they are typed")
	cmd.Flags().DurationVar(&debounce, "debounce", library.DefaultSearchDebounce, "Quiet time before an interactive query runs")
	return cmd
}

func printResults(p *printer, query string, results []library.SearchResult) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if p.structured() {
		return p.data(results)
	}
	if len(results) == 0 {
		p.linef("No resources match %q", query)
		return nil
	}

	p.heading("Found %d result(s) for %q:", len(results), query)
	t := p.table("SUBJECT", "TYPE", "TITLE", "ID")
	for _, r := range results {
		t.row(r.SubjectName, r.ResourceType.Label(), truncate(orDash(r.Title), 45), r.ID)
	}
	return t.render()
}

type firing struct {
	seq   int
	query string
}

// interactiveSearch feeds stdin lines through a Debouncer and runs only the
// queries that survive a quiet period. At end of input the last query runs
// without waiting.
func interactiveSearch(ctx context.Context, in io.Reader, delay time.Duration, run func(string) error) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	d := library.NewDebouncer(delay)
	fired := make(chan firing, 1)
	var (
		last      string
		seq, done int
	)

	for {
		select {
		case <-ctx.Done():
			d.Cancel()
			return nil

		case f := <-fired:
			done = f.seq
			if err := run(f.query); err != nil {
				d.Cancel()
				return err
			}

		case line, ok := <-lines:
			if !ok {
				if d.Cancel() {
					return run(last)
				}
				// The last trigger already fired; wait for it to be delivered.
				for done < seq {
					f := <-fired
					done = f.seq
					if err := run(f.query); err != nil {
						return err
					}
				}
				return nil
			}
			seq++
			last = line
			f := firing{seq: seq, query: line}
			d.Trigger(func() {
				select {
				case fired <- f:
				case <-ctx.Done():
				}
			})
		}
	}
}

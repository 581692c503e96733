// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mtreilly/math-error/internal/library"
)

func newSubjectsCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:     "subjects",
		Aliases: []string{"list", "ls"},
		Short:   "List subjects with their resource counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}

			subjects := a.lib.Catalog.Subjects()
			if p.structured() {
				return p.data(subjects)
			}

			t := p.table("ID", "NAME", "CODE", "PAPERS", "NOTES", "VIDEOS")
			for _, s := range subjects {
				t.row(s.ID, s.Name, s.Code,
					strconv.Itoa(len(s.Resources.Papers)),
					strconv.Itoa(len(s.Resources.Pedia)),
					strconv.Itoa(len(s.Resources.Videos)),
				)
			}
			return t.render()
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newSubjectCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "subject <id>",
		Short: "Show a subject's papers, notes and videos",
		Long: `Show every resource of a subject, grouped by type in insertion order.

Examples:
  math-error subject physics
  math-error subject ict -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}

			s, ok := a.lib.Catalog.SubjectByID(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", library.ErrSubjectNotFound, args[0])
			}
			if p.structured() {
				return p.data(s)
			}

			p.heading("%s %s (%s)", s.Icon, s.Name, s.Code)
			if s.Description != "" {
				p.linef("%s", s.Description)
			}
			for _, rt := range library.ResourceTypes {
				list := s.Resources.List(rt)
				p.linef("")
				p.heading("%s (%d)", rt.Label(), len(list))
				if len(list) == 0 {
					p.linef("  nothing here yet")
					continue
				}
				t := p.table("ID", "TITLE", "SIZE", "ADDED")
				for _, r := range list {
					t.row(r.ID, truncate(orDash(r.Title), 50), orDash(r.Size), when(r.DateAdded))
				}
				if err := t.render(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	out.addFlags(cmd)
	return cmd
}

// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtreilly/math-error/internal/library"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		out   outputOptions
		draft library.ResourceDraft
	)

	cmd := &cobra.Command{
		Use:   "add <subject> <type>",
		Short: "Add a resource to a subject",
		Long: `Append a paper, note or video to the end of a subject's list.

Type is one of papers, pedia (or notes) and videos. Title and URL are required.

Examples:
  math-error add physics papers --title "Physics Final Exam 2023" --url https://example.com/p.pdf --size "2.4 MB"
  math-error add ict videos --title "Networking basics" --url https://youtu.be/xyz`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}
			rt, err := library.ParseResourceType(args[1])
			if err != nil {
				return err
			}
			if err := library.ValidateDraft(draft); err != nil {
				return err
			}

			r, err := a.lib.Catalog.AddResource(cmd.Context(), args[0], rt, draft)
			if err != nil {
				return err
			}
			if p.structured() {
				return p.data(r)
			}
			p.success("Added %q to %s/%s", r.Title, args[0], rt)
			p.linef("ID: %s", r.ID)
			return nil
		},
	}

	out.addFlags(cmd)
	cmd.Flags().StringVar(&draft.Title, "title", "", "Resource title (required)")
	cmd.Flags().StringVar(&draft.URL, "url", "", "Link to the resource (required)")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&draft.Size, "size", "", `Display size, e.g. "2.4 MB" or "45 min"`)
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <subject> <type> <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a resource from a subject",
		Long: `Remove a resource by id. Removing an id that is not present does nothing.

Examples:
  math-error remove physics papers 0190f1c2-...
  math-error remove physics papers 0190f1c2-... --yes`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := textPrinter(cmd)
			subjectID, id := args[0], args[2]
			rt, err := library.ParseResourceType(args[1])
			if err != nil {
				return err
			}
			if _, ok := a.lib.Catalog.SubjectByID(subjectID); !ok {
				return fmt.Errorf("%w: %s", library.ErrSubjectNotFound, subjectID)
			}

			r, ok := a.lib.Catalog.Resource(subjectID, rt, id)
			if !ok {
				p.linef("No %s resource %s in %s; nothing to remove.", rt, id, subjectID)
				return nil
			}
			if !yes {
				confirmed, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Remove %q from %s/%s?", r.Title, subjectID, rt))
				if err != nil {
					return err
				}
				if !confirmed {
					p.linef("Cancelled.")
					return nil
				}
			}

			if err := a.lib.Catalog.RemoveResource(cmd.Context(), subjectID, rt, id); err != nil {
				return err
			}
			p.success("Removed %q", r.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

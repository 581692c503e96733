// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtreilly/math-error/internal/library"
)

func newOpenCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open <subject> <type> <id>",
		Short: "Open a resource in the browser and record the download",
		Long: `Record a download for the resource and open its URL with the system
browser. The URL is opened exactly as stored.

Examples:
  math-error open physics papers 0190f1c2-...
  math-error open physics papers 0190f1c2-... --print`,
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
				return fmt.Errorf("no %s resource %s in %s", rt, id, subjectID)
			}

			a.lib.Activity.TrackDownload(cmd.Context(), subjectID, rt, r.ID, r.Title)

			if printOnly {
				p.linef("%s", r.URL)
				return nil
			}
			if err := openURL(r.URL); err != nil {
				a.logger.Warn("cannot launch browser", zap.String("url", r.URL), zap.Error(err))
				p.linef("Open this link: %s", r.URL)
				return nil
			}
			p.linef("Opening %q", r.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the URL instead of launching a browser")
	return cmd
}

// openURL hands url to the platform's default handler and does not wait for
// it to exit.
func openURL(url string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url)
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.Path, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}

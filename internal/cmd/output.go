// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// outputOptions is the --output flag shared by listing commands.
type outputOptions struct {
	format string
}

func (o *outputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "output", "o", "",
		"Output format: table, json or yaml (default table on a terminal, json otherwise)")
}

// printer writes either human-readable text or a structured document.
type printer struct {
	w      io.Writer
	format string
	tty    bool
}

func (o *outputOptions) printer(cmd *cobra.Command) (*printer, error) {
	w := cmd.OutOrStdout()
	tty := isTerminal(w)

	format := strings.ToLower(strings.TrimSpace(o.format))
	if format == "" {
		format = formatJSON
		if tty {
			format = formatTable
		}
	}
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (choose table, json or yaml)", o.format)
	}
	return &printer{w: w, format: format, tty: tty}, nil
}

// textPrinter is for commands without an --output flag.
func textPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{w: w, format: formatTable, tty: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// structured reports whether output should be a JSON or YAML document.
func (p *printer) structured() bool {
	return p.format != formatTable
}

func (p *printer) data(v any) error {
	if p.format == formatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (p *printer) heading(format string, args ...any) {
	c := color.New(color.Bold)
	if !p.tty {
		c.DisableColor()
	}
	_, _ = c.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) success(format string, args ...any) {
	c := color.New(color.FgGreen)
	if !p.tty {
		c.DisableColor()
	}
	_, _ = c.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) linef(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

type table struct {
	tw *tabwriter.Writer
}

func (p *printer) table(headers ...string) *table {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return &table{tw: tw}
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) render() error {
	return t.tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

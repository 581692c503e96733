// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mtreilly/math-error/internal/library"
)

type themeState struct {
	Mode         library.ThemeMode    `json:"mode" yaml:"mode"`
	CustomColors library.CustomColors `json:"customColors" yaml:"customColors"`
	Appearance   library.Appearance   `json:"appearance" yaml:"appearance"`
}

func currentTheme(a *app) themeState {
	prefs := a.lib.Preferences
	return themeState{
		Mode:         prefs.Theme(),
		CustomColors: prefs.CustomColors(),
		Appearance:   prefs.Appearance(),
	}
}

func printTheme(p *printer, st themeState) error {
	if p.structured() {
		return p.data(st)
	}
	p.linef("Theme:   %s", st.Mode)
	p.linef("Colors:  primary %s, foreground %s", st.CustomColors.Primary, st.CustomColors.PrimaryForeground)
	if len(st.Appearance.Vars) > 0 {
		keys := make([]string, 0, len(st.Appearance.Vars))
		for k := range st.Appearance.Vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.linef("  %s: %s", k, st.Appearance.Vars[k])
		}
	}
	return nil
}

func newThemeCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the display theme",
		Long: `Show the active theme. Use the subcommands to switch themes or set the
custom color pair; the colors are remembered while another theme is active.

Examples:
  math-error theme
  math-error theme list
  math-error theme set dark
  math-error theme colors "#90EE90" "#003200"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}
			return printTheme(p, currentTheme(a))
		},
	}
	out.addFlags(cmd)

	cmd.AddCommand(newThemeListCmd(a))
	cmd.AddCommand(newThemeSetCmd(a))
	cmd.AddCommand(newThemeColorsCmd(a))
	return cmd
}

func newThemeListCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}
			themes := library.Themes()
			if p.structured() {
				return p.data(themes)
			}
			active := a.lib.Preferences.Theme()
			t := p.table("", "ID", "NAME", "DESCRIPTION")
			for _, th := range themes {
				mark := ""
				if th.ID == active {
					mark = "*"
				}
				t.row(mark, string(th.ID), th.Name, th.Description)
			}
			return t.render()
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newThemeSetCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:       "set <light|dark|high-contrast|custom>",
		Short:     "Switch the active theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"light", "dark", "high-contrast", "custom"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}
			mode, err := library.ParseThemeMode(args[0])
			if err != nil {
				return err
			}
			if err := a.lib.Preferences.SetTheme(cmd.Context(), mode); err != nil {
				return err
			}
			return printTheme(p, currentTheme(a))
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newThemeColorsCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "colors <primary> <foreground>",
		Short: "Set the custom theme's colors",
		Long: `Set the custom theme's primary and foreground colors as #rrggbb.
The active theme is not changed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := out.printer(cmd)
			if err != nil {
				return err
			}
			for _, c := range args {
				if !library.IsHexColor(c) {
					return fmt.Errorf("%w: %q is not a #rrggbb color", library.ErrValidation, c)
				}
			}
			colors := library.CustomColors{Primary: args[0], PrimaryForeground: args[1]}
			if err := a.lib.Preferences.SetCustomColors(cmd.Context(), colors); err != nil {
				return err
			}
			return printTheme(p, currentTheme(a))
		},
	}

	out.addFlags(cmd)
	return cmd
}

// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/mtreilly/math-error/internal/kv"
)

// ThemeMode selects the display palette.
type ThemeMode string

const (
	ThemeLight        ThemeMode = "light"
	ThemeDark         ThemeMode = "dark"
	ThemeHighContrast ThemeMode = "high-contrast"
	ThemeCustom       ThemeMode = "custom"
)

// ParseThemeMode accepts one of the four mode names, case-insensitively.
func ParseThemeMode(s string) (ThemeMode, error) {
	m := ThemeMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
	return m, nil
}

// Valid reports whether m is a known mode.
func (m ThemeMode) Valid() bool {
	switch m {
	case ThemeLight, ThemeDark, ThemeHighContrast, ThemeCustom:
		return true
	}
	return false
}

// ThemeOption describes a selectable theme.
type ThemeOption struct {
	ID          ThemeMode `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
}

// Themes lists the selectable themes in display order.
func Themes() []ThemeOption {
	return []ThemeOption{
		{ID: ThemeLight, Name: "Light", Description: "Clean and bright"},
		{ID: ThemeDark, Name: "Dark", Description: "Easy on the eyes"},
		{ID: ThemeHighContrast, Name: "High Contrast", Description: "Maximum accessibility"},
		{ID: ThemeCustom, Name: "Custom", Description: "Your own colors"},
	}
}

// CustomColors is the color pair used by the custom theme.
type CustomColors struct {
	Primary           string `json:"primary" yaml:"primary"`
	PrimaryForeground string `json:"primaryForeground" yaml:"primaryForeground"`
}

// DefaultCustomColors is the pair used until the user picks one.
var DefaultCustomColors = CustomColors{Primary: "#90EE90", PrimaryForeground: "#003200"}

// RGB is a color triple.
type RGB struct {
	R, G, B uint8
}

// fallbackRGB is used for colors that are not six-digit hex.
var fallbackRGB = RGB{R: 144, G: 238, B: 144}

var hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)

// HexToRGB parses "#rrggbb" (the leading # is optional). Anything else
// yields the light-green fallback.
func HexToRGB(hex string) RGB {
	m := hexColorRe.FindStringSubmatch(strings.TrimSpace(hex))
	if m == nil {
		return fallbackRGB
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		v, _ := strconv.ParseUint(m[i+1], 16, 8)
		out[i] = uint8(v)
	}
	return RGB{R: out[0], G: out[1], B: out[2]}
}

// IsHexColor reports whether s is a six-digit hex color.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(strings.TrimSpace(s))
}

// String renders the triple as "R G B", the form CSS custom properties use.
func (c RGB) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// Appearance is what a presentation layer applies for the current
// preferences.
type Appearance struct {
	Mode ThemeMode `json:"mode" yaml:"mode"`
	// Vars holds CSS custom properties; empty unless Mode is custom.
	Vars map[string]string `json:"vars" yaml:"vars"`
}

// Preferences stores the theme mode and the custom color pair. The colors
// are kept while another mode is active so switching back restores them.
type Preferences struct {
	mu        sync.RWMutex
	p         persister
	mode      ThemeMode
	colors    CustomColors
	listeners []func(Appearance)
}

// NewPreferences creates a store holding the defaults.
func NewPreferences(store kv.Store, opts ...Option) *Preferences {
	o := buildOptions(opts)
	return &Preferences{
		p:      persister{kv: store, logger: o.logger.Named("preferences")},
		mode:   ThemeLight,
		colors: DefaultCustomColors,
	}
}

// Initialize loads the persisted mode and colors. An unknown mode, or a
// color pair that is unparseable or incomplete, falls back to the defaults.
func (p *Preferences) Initialize(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mode = ThemeLight
	if raw, err := p.p.loadRaw(ctx, KeyTheme); err != nil {
		p.p.fallback(KeyTheme, err)
	} else if m := ThemeMode(strings.TrimSpace(string(raw))); m.Valid() {
		p.mode = m
	} else {
		p.p.fallback(KeyTheme, fmt.Errorf("%w: %q", ErrInvalidTheme, raw))
	}

	p.colors = DefaultCustomColors
	var colors CustomColors
	switch err := p.p.load(ctx, KeyCustomColors, &colors); {
	case err != nil:
		p.p.fallback(KeyCustomColors, err)
	case colors.Primary == "" || colors.PrimaryForeground == "":
		// A stored null or a half-written pair.
		p.p.fallback(KeyCustomColors, fmt.Errorf("%w: %s is missing a color", ErrStorageUnavailable, KeyCustomColors))
	default:
		p.colors = colors
	}
}

// Theme returns the active mode.
func (p *Preferences) Theme() ThemeMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// CustomColors returns the remembered custom pair.
func (p *Preferences) CustomColors() CustomColors {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.colors
}

// Appearance derives the values to apply from the current state.
func (p *Preferences) Appearance() Appearance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.appearance()
}

func (p *Preferences) appearance() Appearance {
	a := Appearance{Mode: p.mode, Vars: map[string]string{}}
	if p.mode == ThemeCustom {
		a.Vars["--custom-primary"] = HexToRGB(p.colors.Primary).String()
		a.Vars["--custom-primary-foreground"] = HexToRGB(p.colors.PrimaryForeground).String()
	}
	return a
}

// OnChange registers fn to receive the new Appearance after every theme or
// color change.
func (p *Preferences) OnChange(fn func(Appearance)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// SetTheme switches the active mode. Custom colors are left untouched.
func (p *Preferences) SetTheme(ctx context.Context, mode ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, mode)
	}
	p.mu.Lock()
	p.mode = mode
	p.changed(ctx)
	return nil
}

// SetCustomColors replaces the custom pair. When the custom mode is active
// the new colors are reflected in Appearance immediately.
func (p *Preferences) SetCustomColors(ctx context.Context, colors CustomColors) error {
	p.mu.Lock()
	p.colors = colors
	p.changed(ctx)
	return nil
}

// changed persists both values, releases the lock taken by the caller and
// notifies listeners outside of it.
func (p *Preferences) changed(ctx context.Context) {
	_ = p.p.saveRaw(ctx, KeyTheme, []byte(p.mode))
	_ = p.p.save(ctx, KeyCustomColors, p.colors)
	a := p.appearance()
	listeners := append([]func(Appearance){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(a)
	}
}

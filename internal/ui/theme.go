// Package ui provides the StowPlan application UI components.
//
// This file defines a custom compact Fyne theme for a professional, dense layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// StowPlanTheme wraps the default Fyne theme with compact sizing overrides
// for an information-dense operations layout.
type StowPlanTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewStowPlanTheme creates a new StowPlanTheme with the system default variant.
func NewStowPlanTheme() *StowPlanTheme {
	return &StowPlanTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *StowPlanTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *StowPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *StowPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *StowPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *StowPlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}

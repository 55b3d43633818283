package themes

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// VBDTheme is a Darcula-style palette in "dark" and a plain light palette
// otherwise.
type VBDTheme struct {
	variant string
}

var _ fyne.Theme = (*VBDTheme)(nil)

func NewTheme(variant string) fyne.Theme {
	return &VBDTheme{variant: variant}
}

var darkPalette = map[fyne.ThemeColorName]color.NRGBA{
	theme.ColorNameBackground:      {R: 43, G: 43, B: 43, A: 255},
	theme.ColorNameButton:          {R: 60, G: 63, B: 65, A: 255},
	theme.ColorNameDisabledButton:  {R: 50, G: 52, B: 54, A: 255},
	theme.ColorNameDisabled:        {R: 110, G: 110, B: 110, A: 255},
	theme.ColorNameError:           {R: 199, G: 84, B: 80, A: 255},
	theme.ColorNameFocus:           {R: 53, G: 116, B: 240, A: 255},
	theme.ColorNameForeground:      {R: 187, G: 187, B: 187, A: 255},
	theme.ColorNameHover:           {R: 75, G: 78, B: 80, A: 255},
	theme.ColorNameInputBackground: {R: 69, G: 73, B: 74, A: 255},
	theme.ColorNameInputBorder:     {R: 100, G: 100, B: 100, A: 255},
	theme.ColorNameMenuBackground:  {R: 60, G: 63, B: 65, A: 255},
	theme.ColorNamePressed:         {R: 90, G: 93, B: 95, A: 255},
	theme.ColorNamePrimary:         {R: 75, G: 110, B: 175, A: 255},
	theme.ColorNameScrollBar:       {R: 90, G: 93, B: 94, A: 255},
	theme.ColorNameSelection:       {R: 47, G: 101, B: 202, A: 160},
	theme.ColorNameSeparator:       {R: 81, G: 81, B: 81, A: 255},
	theme.ColorNamePlaceHolder:     {R: 128, G: 128, B: 128, A: 255},
}

var lightPalette = map[fyne.ThemeColorName]color.NRGBA{
	theme.ColorNameBackground:      {R: 242, G: 242, B: 242, A: 255},
	theme.ColorNameButton:          {R: 255, G: 255, B: 255, A: 255},
	theme.ColorNameForeground:      {R: 30, G: 30, B: 30, A: 255},
	theme.ColorNameInputBackground: {R: 255, G: 255, B: 255, A: 255},
	theme.ColorNamePrimary:         {R: 38, G: 117, B: 191, A: 255},
	theme.ColorNameSelection:       {R: 38, G: 117, B: 191, A: 70},
	theme.ColorNameSeparator:       {R: 210, G: 210, B: 210, A: 255},
}

func (t *VBDTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	palette := lightPalette
	if t.variant == "dark" {
		palette = darkPalette
		variant = theme.VariantDark
	} else {
		variant = theme.VariantLight
	}
	if c, ok := palette[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *VBDTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *VBDTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *VBDTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameText:
		return 13
	default:
		return theme.DefaultTheme().Size(name)
	}
}

package godeck

import (
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
	ColorRed   = Color{ARGB: "FFFF0000"}
	ColorGreen = Color{ARGB: "FF00FF00"}
	ColorBlue  = Color{ARGB: "FF0000FF"}
)

// NewColor creates a new Color from an ARGB hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000").
// A leading "#" is stripped automatically.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return Color{ARGB: "FF000000"} // fallback to black
	}
	return Color{ARGB: argb}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 {
	return parseHexByte(c.ARGB, 2)
}

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 {
	return parseHexByte(c.ARGB, 4)
}

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 {
	return parseHexByte(c.ARGB, 6)
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Font represents text font properties. Weight follows the CSS numeric
// scale; values of 600 and above render bold. Underline and Strike are
// tri-state: nil leaves the attribute unset so the viewer default applies.
type Font struct {
	Name      string
	Size      int // in points
	Italic    bool
	Color     Color
	Weight    int
	Underline *bool
	Strike    *bool
}

// DefaultFont returns the engine's base font.
func DefaultFont() *Font {
	return &Font{
		Name:   "Inter",
		Size:   16,
		Color:  ColorBlack,
		Weight: 400,
	}
}

// Bold reports whether the font weight renders bold.
func (f *Font) Bold() bool {
	return f.Weight >= 600
}

// Clone returns a copy of the font. Tri-state pointers are duplicated so
// the copy can be modified independently.
func (f *Font) Clone() *Font {
	c := *f
	if f.Underline != nil {
		u := *f.Underline
		c.Underline = &u
	}
	if f.Strike != nil {
		s := *f.Strike
		c.Strike = &s
	}
	return &c
}

// SetName sets the font name.
func (f *Font) SetName(name string) *Font {
	f.Name = name
	return f
}

// SetSize sets the font size in points (clamped to 1–4000).
func (f *Font) SetSize(size int) *Font {
	if size < 1 {
		size = 1
	}
	if size > 4000 {
		size = 4000
	}
	f.Size = size
	return f
}

// SetWeight sets the font weight.
func (f *Font) SetWeight(w int) *Font {
	f.Weight = w
	return f
}

// SetItalic sets the italic property.
func (f *Font) SetItalic(italic bool) *Font {
	f.Italic = italic
	return f
}

// SetColor sets the font color.
func (f *Font) SetColor(color Color) *Font {
	f.Color = color
	return f
}

// SetUnderline sets the underline property.
func (f *Font) SetUnderline(u bool) *Font {
	f.Underline = &u
	return f
}

// SetStrike sets the strikethrough property.
func (f *Font) SetStrike(s bool) *Font {
	f.Strike = &s
	return f
}

// Fill represents a solid fill with opacity. Opacity 1.0 is fully opaque
// and emits no alpha node.
type Fill struct {
	Color   Color
	Opacity float64
}

// SolidFill creates a fully opaque fill.
func SolidFill(c Color) *Fill {
	return &Fill{Color: c, Opacity: 1.0}
}

// SetOpacity sets the fill opacity (clamped to [0, 1]).
func (f *Fill) SetOpacity(op float64) *Fill {
	f.Opacity = clamp01(op)
	return f
}

// Stroke represents a shape outline. Thickness 0 suppresses the line.
type Stroke struct {
	Color     Color
	Thickness float64 // in points
	Opacity   float64
}

// NewStroke creates a fully opaque stroke.
func NewStroke(c Color, thickness float64) *Stroke {
	return &Stroke{Color: c, Thickness: thickness, Opacity: 1.0}
}

// Shadow represents an outer shadow effect.
type Shadow struct {
	Radius  int // blur radius in points
	Offset  int // distance in points
	Color   Color
	Opacity float64
	Angle   int // direction in degrees
}

// NewShadow creates a shadow with the engine defaults.
func NewShadow(radius int) *Shadow {
	return &Shadow{
		Radius:  radius,
		Color:   ColorBlack,
		Opacity: 0.5,
	}
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	AlignLeft    HorizontalAlignment = "l"
	AlignCenter  HorizontalAlignment = "ctr"
	AlignRight   HorizontalAlignment = "r"
	AlignJustify HorizontalAlignment = "just"
)

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

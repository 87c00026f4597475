package godeck

import "testing"

func TestNewColorValidation(t *testing.T) {
	c := NewColor("FF336699")
	if c.ARGB != "FF336699" {
		t.Errorf("ARGB = %q", c.ARGB)
	}
	if c.GetRed() != 0x33 || c.GetGreen() != 0x66 || c.GetBlue() != 0x99 {
		t.Errorf("RGB = (%d, %d, %d)", c.GetRed(), c.GetGreen(), c.GetBlue())
	}

	// Invalid input falls back to opaque black.
	bad := NewColor("zzz")
	if bad.ARGB != "FF000000" {
		t.Errorf("invalid color = %q, want FF000000", bad.ARGB)
	}
}

func TestColorRGBExtraction(t *testing.T) {
	if got := colorRGB(NewColor("FFABCDEF")); got != "ABCDEF" {
		t.Errorf("colorRGB = %q", got)
	}
	if got := colorRGB(Color{}); got != "000000" {
		t.Errorf("colorRGB(zero) = %q", got)
	}
}

func TestFontBoldThreshold(t *testing.T) {
	f := DefaultFont()
	if f.Bold() {
		t.Error("default font should not be bold")
	}
	f.SetWeight(600)
	if !f.Bold() {
		t.Error("weight 600 should be bold")
	}
	f.SetWeight(599)
	if f.Bold() {
		t.Error("weight 599 should not be bold")
	}
}

func TestFontClone(t *testing.T) {
	f := DefaultFont().SetItalic(true).SetUnderline(true)
	c := f.Clone()
	c.SetUnderline(false)
	c.SetName("Arial")
	if f.Name == "Arial" {
		t.Error("clone shares Name with original")
	}
	if f.Underline == nil || !*f.Underline {
		t.Error("clone shares Underline pointer with original")
	}
}

func TestFillOpacityClamped(t *testing.T) {
	f := SolidFill(NewColor("FF112233"))
	if f.Opacity != 1 {
		t.Errorf("default opacity = %g", f.Opacity)
	}
	f.SetOpacity(1.7)
	if f.Opacity != 1 {
		t.Errorf("opacity = %g, want clamped to 1", f.Opacity)
	}
	f.SetOpacity(-0.3)
	if f.Opacity != 0 {
		t.Errorf("opacity = %g, want clamped to 0", f.Opacity)
	}
}

func TestNewShadowDefaults(t *testing.T) {
	sh := NewShadow(5)
	if sh.Radius != 5 {
		t.Errorf("radius = %d", sh.Radius)
	}
	if sh.Opacity != 0.5 {
		t.Errorf("opacity = %g", sh.Opacity)
	}
	if colorRGB(sh.Color) != "000000" {
		t.Errorf("color = %q", sh.Color.ARGB)
	}
}

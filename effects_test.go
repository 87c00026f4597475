package godeck

import (
	"strings"
	"testing"
)

func countChildren(e *Element, tag string) int {
	n := 0
	for _, c := range e.Children {
		if c.Tag == tag {
			n++
		}
	}
	return n
}

func TestReplaceOuterShadowIdempotent(t *testing.T) {
	lst := NewElement("a:effectLst")

	first := NewShadow(4)
	ReplaceOuterShadow(lst, first)

	second := NewShadow(9)
	second.Offset = 3
	second.Angle = 90
	second.Opacity = 0.25
	ReplaceOuterShadow(lst, second)

	if n := countChildren(lst, "a:outerShdw"); n != 1 {
		t.Fatalf("outer shadow count = %d, want 1", n)
	}

	outer := lst.FindChild("a:outerShdw")
	wantAttrs := map[string]string{
		"blurRad":      "114300", // 9pt
		"dist":         "38100",  // 3pt
		"dir":          "5400000",
		"rotWithShape": "0",
	}
	for _, a := range outer.Attrs {
		if want, ok := wantAttrs[a.Name]; ok && a.Value != want {
			t.Errorf("attr %s = %s, want %s", a.Name, a.Value, want)
		}
	}

	clr := outer.FindChild("a:srgbClr")
	if clr == nil {
		t.Fatal("missing srgbClr child")
	}
	alpha := clr.FindChild("a:alpha")
	if alpha == nil || alpha.Attrs[0].Value != "25000" {
		t.Errorf("alpha = %+v, want 25000", alpha)
	}
}

func TestReplaceOuterShadowNilOverrides(t *testing.T) {
	lst := NewElement("a:effectLst")
	// Pre-existing shadows of any kind are purged.
	lst.AppendChild(NewElement("a:innerShdw"))
	lst.AppendChild(NewElement("a:prstShdw"))

	ReplaceOuterShadow(lst, nil)

	if countChildren(lst, "a:innerShdw") != 0 || countChildren(lst, "a:prstShdw") != 0 {
		t.Error("pre-existing shadow nodes survived")
	}
	outer := lst.FindChild("a:outerShdw")
	if outer == nil {
		t.Fatal("nil shadow must still insert an explicit outer shadow")
	}
	xml := outer.XML()
	if !strings.Contains(xml, `blurRad="0"`) || !strings.Contains(xml, `<a:alpha val="0"/>`) {
		t.Errorf("zero shadow XML = %s", xml)
	}
}

func TestReplaceOuterShadowKeepsOtherEffects(t *testing.T) {
	lst := NewElement("a:effectLst")
	lst.AppendChild(NewElement("a:glow"))
	ReplaceOuterShadow(lst, NewShadow(2))
	if countChildren(lst, "a:glow") != 1 {
		t.Error("non-shadow effect was removed")
	}
}

func TestFixedAlphaRounding(t *testing.T) {
	cases := []struct {
		op   float64
		want int
	}{
		{0, 0},
		{1, 100000},
		{0.5, 50000},
		{0.424999, 42500},
		{0.42, 42000},
		{-3, 0},
		{7, 100000},
	}
	for _, c := range cases {
		if got := fixedAlpha(c.op); got != c.want {
			t.Errorf("fixedAlpha(%g) = %d, want %d", c.op, got, c.want)
		}
	}
}

func TestElementXMLSerialization(t *testing.T) {
	e := NewElement("a:effectLst")
	child := e.AppendChild(NewElement("a:outerShdw", Attr{"dir", "0"}))
	child.AppendChild(NewElement("a:srgbClr", Attr{"val", "FF00AA"}))

	want := `<a:effectLst><a:outerShdw dir="0"><a:srgbClr val="FF00AA"/></a:outerShdw></a:effectLst>`
	if got := e.XML(); got != want {
		t.Errorf("XML() = %s, want %s", got, want)
	}
}

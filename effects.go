package godeck

import (
	"fmt"
	"math"
	"strings"
)

// The effect-tree editor. Shadows have no declarative API on the output
// shape model, so the effect list is manipulated as a small ordered XML
// subtree that the slide writer serializes verbatim inside <p:spPr>.

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is an ordered XML element node.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

// NewElement creates an element with the given tag and attributes.
func NewElement(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// AppendChild appends a child and returns it.
func (e *Element) AppendChild(c *Element) *Element {
	e.Children = append(e.Children, c)
	return c
}

// FindChild returns the first direct child with the given tag, or nil.
func (e *Element) FindChild(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// RemoveChildren removes every direct child whose tag matches one of tags.
func (e *Element) RemoveChildren(tags ...string) {
	kept := e.Children[:0]
	for _, c := range e.Children {
		remove := false
		for _, t := range tags {
			if c.Tag == t {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, c)
		}
	}
	e.Children = kept
}

// XML serializes the subtree without surrounding whitespace.
func (e *Element) XML() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

func (e *Element) writeTo(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.Attrs {
		fmt.Fprintf(b, ` %s="%s"`, a.Name, xmlEscape(a.Value))
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		c.writeTo(b)
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}

// fixedAlpha converts an opacity in [0, 1] to the format's fixed-point
// alpha unit (0-100000).
func fixedAlpha(opacity float64) int {
	return int(math.Round(clamp01(opacity) * 100000))
}

// ReplaceOuterShadow replaces the shadow effects under effectLst with a
// single outer shadow. Any pre-existing outer, inner, or preset shadow
// children are removed first, so calling it repeatedly leaves exactly one
// outer-shadow node. A nil shadow inserts an explicit zero-alpha outer
// shadow, overriding anything the shape would otherwise inherit from a
// theme or preset instead of leaving the list empty.
func ReplaceOuterShadow(effectLst *Element, shadow *Shadow) {
	effectLst.RemoveChildren("a:outerShdw", "a:innerShdw", "a:prstShdw")

	if shadow == nil {
		outer := NewElement("a:outerShdw",
			Attr{"blurRad", "0"},
			Attr{"dist", "0"},
			Attr{"dir", "0"},
		)
		clr := outer.AppendChild(NewElement("a:srgbClr", Attr{"val", "000000"}))
		clr.AppendChild(NewElement("a:alpha", Attr{"val", "0"}))
		effectLst.AppendChild(outer)
		return
	}

	outer := NewElement("a:outerShdw",
		Attr{"blurRad", fmt.Sprint(Point(float64(shadow.Radius)))},
		Attr{"dist", fmt.Sprint(Point(float64(shadow.Offset)))},
		Attr{"dir", fmt.Sprint(shadow.Angle * 60000)},
		Attr{"rotWithShape", "0"},
	)
	clr := outer.AppendChild(NewElement("a:srgbClr", Attr{"val", colorRGB(shadow.Color)}))
	clr.AppendChild(NewElement("a:alpha", Attr{"val", fmt.Sprint(fixedAlpha(shadow.Opacity))}))
	effectLst.AppendChild(outer)
}

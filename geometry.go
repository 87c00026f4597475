package godeck

// Position describes a shape's bounding box in abstract editor units
// (typographic points on the fixed 1280x720 canvas).
type Position struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewPosition creates a Position from left/top/width/height in points.
func NewPosition(left, top, width, height float64) Position {
	return Position{Left: left, Top: top, Width: width, Height: height}
}

// Shrink applies a margin: left/top shift the origin inward, and the
// opposing sides are subtracted from the extents, floored at zero.
func (p Position) Shrink(m *Spacing) Position {
	if m == nil {
		return p
	}
	w := p.Width - m.Left - m.Right
	if w < 0 {
		w = 0
	}
	h := p.Height - m.Top - m.Bottom
	if h < 0 {
		h = 0
	}
	return Position{
		Left:   p.Left + m.Left,
		Top:    p.Top + m.Top,
		Width:  w,
		Height: h,
	}
}

// EMU converts the box to output units as (x, y, cx, cy).
func (p Position) EMU() (x, y, cx, cy int64) {
	return Point(p.Left), Point(p.Top), Point(p.Width), Point(p.Height)
}

// XYXY converts the box to output units as two corner points,
// (x1, y1) and (x2, y2) = (left+width, top+height). Used for connector
// endpoints.
func (p Position) XYXY() (x1, y1, x2, y2 int64) {
	return Point(p.Left), Point(p.Top), Point(p.Left + p.Width), Point(p.Top + p.Height)
}

// Spacing describes per-side spacing in points. Used both as a shape
// margin and as a paragraph spacing carrier (Top = before, Bottom = after).
type Spacing struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// SpacingAll creates a Spacing with the same value on every side.
func SpacingAll(n float64) *Spacing {
	return &Spacing{Top: n, Bottom: n, Left: n, Right: n}
}

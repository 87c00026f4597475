package godeck

import "testing"

func TestPositionEMU(t *testing.T) {
	p := NewPosition(10, 20, 30, 40)
	x, y, cx, cy := p.EMU()
	if x != Point(10) || y != Point(20) || cx != Point(30) || cy != Point(40) {
		t.Errorf("EMU() = (%d, %d, %d, %d)", x, y, cx, cy)
	}
}

func TestPositionXYXY(t *testing.T) {
	p := NewPosition(10, 20, 30, 40)
	x1, y1, x2, y2 := p.XYXY()
	if x1 != Point(10) || y1 != Point(20) {
		t.Errorf("start = (%d, %d)", x1, y1)
	}
	if x2 != Point(40) || y2 != Point(60) {
		t.Errorf("end = (%d, %d)", x2, y2)
	}
}

func TestPositionShrink(t *testing.T) {
	p := NewPosition(100, 100, 200, 100)
	m := &Spacing{Top: 10, Bottom: 20, Left: 5, Right: 15}
	s := p.Shrink(m)
	if s.Left != 105 || s.Top != 110 {
		t.Errorf("origin = (%g, %g), want (105, 110)", s.Left, s.Top)
	}
	if s.Width != 180 || s.Height != 70 {
		t.Errorf("extent = %gx%g, want 180x70", s.Width, s.Height)
	}
}

func TestPositionShrinkFloorsAtZero(t *testing.T) {
	p := NewPosition(0, 0, 10, 10)
	s := p.Shrink(SpacingAll(20))
	if s.Width != 0 || s.Height != 0 {
		t.Errorf("extent = %gx%g, want 0x0", s.Width, s.Height)
	}
}

func TestPositionShrinkNilMargin(t *testing.T) {
	p := NewPosition(1, 2, 3, 4)
	if s := p.Shrink(nil); s != p {
		t.Errorf("Shrink(nil) = %+v, want unchanged", s)
	}
}

func TestUnitConversions(t *testing.T) {
	if Inch(1) != 914400 {
		t.Errorf("Inch(1) = %d", Inch(1))
	}
	if Point(1) != 12700 {
		t.Errorf("Point(1) = %d", Point(1))
	}
	if got := EMUToPoint(Point(72)); got != 72 {
		t.Errorf("EMUToPoint(Point(72)) = %g", got)
	}
	if got := EMUToInch(Inch(2)); got != 2 {
		t.Errorf("EMUToInch(Inch(2)) = %g", got)
	}
}

package godeck

// Slide represents one output slide: an optional background fill, an
// optional speaker note, and an ordered shape list. Shape z-order in the
// written file equals insertion order.
type Slide struct {
	name       string
	notes      string
	background *Fill
	shapes     []Shape
}

func newSlide() *Slide {
	return &Slide{shapes: make([]Shape, 0)}
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name.
func (s *Slide) SetName(name string) { s.name = name }

// GetNotes returns the speaker notes text.
func (s *Slide) GetNotes() string { return s.notes }

// SetNotes sets the speaker notes text.
func (s *Slide) SetNotes(notes string) { s.notes = notes }

// GetBackground returns the background fill, nil meaning inherited.
func (s *Slide) GetBackground() *Fill { return s.background }

// SetBackground sets the background fill.
func (s *Slide) SetBackground(f *Fill) { s.background = f }

// GetShapes returns the slide's shapes in z-order.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// GetShapeCount returns the number of shapes on the slide.
func (s *Slide) GetShapeCount() int { return len(s.shapes) }

// AddShape appends an existing shape.
func (s *Slide) AddShape(shape Shape) {
	s.shapes = append(s.shapes, shape)
}

// CreateRichTextShape creates a rich text shape and appends it.
func (s *Slide) CreateRichTextShape() *RichTextShape {
	rt := NewRichTextShape()
	s.shapes = append(s.shapes, rt)
	return rt
}

// CreateAutoShape creates an auto shape and appends it.
func (s *Slide) CreateAutoShape() *AutoShape {
	a := newAutoShape()
	s.shapes = append(s.shapes, a)
	return a
}

// CreateDrawingShape creates a drawing shape and appends it.
func (s *Slide) CreateDrawingShape() *DrawingShape {
	d := NewDrawingShape()
	s.shapes = append(s.shapes, d)
	return d
}

// CreateLineShape creates a line shape and appends it.
func (s *Slide) CreateLineShape() *LineShape {
	l := NewLineShape()
	s.shapes = append(s.shapes, l)
	return l
}

// RemoveShapeByPointer removes the given shape if present.
func (s *Slide) RemoveShapeByPointer(target Shape) bool {
	for i, shape := range s.shapes {
		if shape == target {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return true
		}
	}
	return false
}

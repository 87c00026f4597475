package godeck

import (
	"fmt"
	"os"
	"strings"
)

// Shape is the interface that all output shapes implement.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	GetRotation() int
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeRichText ShapeType = iota
	ShapeTypeDrawing
	ShapeTypeAutoShape
	ShapeTypeLine
)

// BaseShape contains common shape properties.
type BaseShape struct {
	name           string
	description    string
	offsetX        int64 // in EMU
	offsetY        int64 // in EMU
	width          int64 // in EMU
	height         int64 // in EMU
	rotation       int   // in degrees
	flipHorizontal bool
	flipVertical   bool
	fill           *Fill   // nil means no fill
	stroke         *Stroke // nil or zero thickness means no outline
	effects        *Element
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) GetRotation() int  { return b.rotation }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape  { b.name = n; return b }
func (b *BaseShape) SetRotation(r int) *BaseShape { b.rotation = ((r % 360) + 360) % 360; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

// SetFlipHorizontal controls horizontal flipping.
func (b *BaseShape) SetFlipHorizontal(flip bool) *BaseShape {
	b.flipHorizontal = flip
	return b
}

// SetFlipVertical controls vertical flipping.
func (b *BaseShape) SetFlipVertical(flip bool) *BaseShape {
	b.flipVertical = flip
	return b
}

func (b *BaseShape) GetDescription() string  { return b.description }
func (b *BaseShape) SetDescription(d string) { b.description = d }

// GetFill returns the shape fill, nil meaning no fill.
func (b *BaseShape) GetFill() *Fill { return b.fill }

func (b *BaseShape) SetFill(f *Fill) { b.fill = f }

// GetStroke returns the shape outline, nil meaning no outline.
func (b *BaseShape) GetStroke() *Stroke { return b.stroke }

func (b *BaseShape) SetStroke(s *Stroke) { b.stroke = s }

// EnsureEffectList returns the shape's effect-list subtree, creating an
// empty one on first use. The slide writer serializes it inside <p:spPr>.
func (b *BaseShape) EnsureEffectList() *Element {
	if b.effects == nil {
		b.effects = NewElement("a:effectLst")
	}
	return b.effects
}

// GetEffectList returns the effect list, or nil if none was created.
func (b *BaseShape) GetEffectList() *Element { return b.effects }

// textInsets carries explicit text-frame insets in EMU. Emitted on
// <a:bodyPr> only when set.
type textInsets struct {
	left, right, top, bottom int64
	set                      bool
}

// RichTextShape represents a text frame shape.
type RichTextShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	wordWrap        bool
	insets          textInsets
}

func (r *RichTextShape) GetType() ShapeType { return ShapeTypeRichText }

// NewRichTextShape creates a new rich text shape.
func NewRichTextShape() *RichTextShape {
	return &RichTextShape{
		paragraphs: []*Paragraph{NewParagraph()},
		wordWrap:   true,
	}
}

// SetWidth sets the width and returns the shape for chaining.
func (r *RichTextShape) SetWidth(w int64) *RichTextShape {
	r.width = w
	return r
}

// SetHeight sets the height and returns the shape for chaining.
func (r *RichTextShape) SetHeight(h int64) *RichTextShape {
	r.height = h
	return r
}

// GetActiveParagraph returns the active paragraph.
func (r *RichTextShape) GetActiveParagraph() *Paragraph {
	if len(r.paragraphs) == 0 {
		r.paragraphs = append(r.paragraphs, NewParagraph())
	}
	return r.paragraphs[r.activeParagraph]
}

// CreateParagraph creates a new paragraph and makes it active.
func (r *RichTextShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	r.paragraphs = append(r.paragraphs, p)
	r.activeParagraph = len(r.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (r *RichTextShape) GetParagraphs() []*Paragraph {
	return r.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (r *RichTextShape) CreateTextRun(text string) *TextRun {
	return r.GetActiveParagraph().CreateTextRun(text)
}

// SetWordWrap sets word wrap.
func (r *RichTextShape) SetWordWrap(wrap bool) {
	r.wordWrap = wrap
}

// GetWordWrap returns word wrap setting.
func (r *RichTextShape) GetWordWrap() bool {
	return r.wordWrap
}

// SetInsets sets explicit text-frame insets in EMU.
func (r *RichTextShape) SetInsets(left, right, top, bottom int64) {
	r.insets = textInsets{left: left, right: right, top: top, bottom: bottom, set: true}
}

// Paragraph represents a text paragraph.
type Paragraph struct {
	elements    []ParagraphElement
	alignment   HorizontalAlignment
	font        *Font // paragraph default run properties
	lineSpacing int   // negative: percent*1000 (spcPct); positive: points*100 (spcPts)
	spaceBefore int   // in points*100
	spaceAfter  int   // in points*100
}

// ParagraphElement is the interface for paragraph content.
type ParagraphElement interface {
	GetElementType() string
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{elements: make([]ParagraphElement, 0)}
}

// GetAlignment returns the paragraph alignment.
func (p *Paragraph) GetAlignment() HorizontalAlignment { return p.alignment }

// SetAlignment sets the paragraph alignment.
func (p *Paragraph) SetAlignment(a HorizontalAlignment) { p.alignment = a }

// GetFont returns the paragraph default font, or nil.
func (p *Paragraph) GetFont() *Font { return p.font }

// SetFont sets the paragraph default font.
func (p *Paragraph) SetFont(f *Font) { p.font = f }

// SetLineSpacing sets the line spacing. Negative values encode a
// percentage in thousandths (spcPct), positive values points*100 (spcPts).
func (p *Paragraph) SetLineSpacing(spacing int) { p.lineSpacing = spacing }

// GetLineSpacing returns the line spacing.
func (p *Paragraph) GetLineSpacing() int { return p.lineSpacing }

// SetSpaceBefore sets the space before the paragraph in points*100.
func (p *Paragraph) SetSpaceBefore(v int) { p.spaceBefore = v }

// SetSpaceAfter sets the space after the paragraph in points*100.
func (p *Paragraph) SetSpaceAfter(v int) { p.spaceAfter = v }

// GetElements returns all paragraph elements.
func (p *Paragraph) GetElements() []ParagraphElement {
	return p.elements
}

// CreateTextRun creates a new text run. The run starts with no explicit
// font; the format's defaults (or the paragraph font) apply until one is
// set.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{text: text}
	p.elements = append(p.elements, tr)
	return tr
}

// CreateBreak creates a line break element.
func (p *Paragraph) CreateBreak() *BreakElement {
	br := &BreakElement{}
	p.elements = append(p.elements, br)
	return br
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font // nil emits a minimal run-properties node
}

func (tr *TextRun) GetElementType() string { return "textrun" }

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties, or nil.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// BreakElement represents a line break.
type BreakElement struct{}

func (br *BreakElement) GetElementType() string { return "break" }

// AutoShape represents a preset-geometry shape (rectangle, ellipse, ...).
type AutoShape struct {
	BaseShape
	shapeType     AutoShapeType
	paragraphs    []*Paragraph
	wordWrap      bool
	insets        textInsets
	adjustment    float64 // corner radius as a fraction of the shorter side
	adjustmentSet bool
}

// AutoShapeType represents the preset geometry of an auto shape.
type AutoShapeType string

const (
	AutoShapeRectangle     AutoShapeType = "rect"
	AutoShapeRoundedRect   AutoShapeType = "roundRect"
	AutoShapeEllipse       AutoShapeType = "ellipse"
	AutoShapeTriangle      AutoShapeType = "triangle"
	AutoShapeDiamond       AutoShapeType = "diamond"
	AutoShapeParallelogram AutoShapeType = "parallelogram"
	AutoShapeTrapezoid     AutoShapeType = "trapezoid"
	AutoShapePentagon      AutoShapeType = "pentagon"
	AutoShapeHexagon       AutoShapeType = "hexagon"
	AutoShapeArrowRight    AutoShapeType = "rightArrow"
	AutoShapeArrowLeft     AutoShapeType = "leftArrow"
	AutoShapeArrowUp       AutoShapeType = "upArrow"
	AutoShapeArrowDown     AutoShapeType = "downArrow"
	AutoShapeStar5         AutoShapeType = "star5"
	AutoShapeHeart         AutoShapeType = "heart"
	AutoShapeChevron       AutoShapeType = "chevron"
	AutoShapeCloud         AutoShapeType = "cloud"
	AutoShapeCube          AutoShapeType = "cube"
	AutoShapeCan           AutoShapeType = "can"
	AutoShapeBevel         AutoShapeType = "bevel"
	AutoShapeFrame         AutoShapeType = "frame"
	AutoShapePlaque        AutoShapeType = "plaque"
	AutoShapeDonut         AutoShapeType = "donut"
	AutoShapePie           AutoShapeType = "pie"
	AutoShapeArc           AutoShapeType = "arc"
)

func (a *AutoShape) GetType() ShapeType { return ShapeTypeAutoShape }

// newAutoShape creates a new auto shape; use Slide.CreateAutoShape.
func newAutoShape() *AutoShape {
	return &AutoShape{
		shapeType: AutoShapeRectangle,
		wordWrap:  true,
	}
}

// SetAutoShapeType sets the auto shape preset geometry.
func (a *AutoShape) SetAutoShapeType(t AutoShapeType) *AutoShape {
	a.shapeType = t
	return a
}

// GetAutoShapeType returns the auto shape preset geometry.
func (a *AutoShape) GetAutoShapeType() AutoShapeType {
	return a.shapeType
}

// SetAdjustment sets the preset geometry's primary adjustment value as a
// 0..1 fraction of the shape's shorter side (e.g. a corner radius).
func (a *AutoShape) SetAdjustment(frac float64) *AutoShape {
	a.adjustment = frac
	a.adjustmentSet = true
	return a
}

// GetAdjustment returns the adjustment fraction and whether it is set.
func (a *AutoShape) GetAdjustment() (float64, bool) {
	return a.adjustment, a.adjustmentSet
}

// SetWordWrap sets word wrap on the shape's text frame.
func (a *AutoShape) SetWordWrap(wrap bool) { a.wordWrap = wrap }

// SetInsets sets explicit text-frame insets in EMU.
func (a *AutoShape) SetInsets(left, right, top, bottom int64) {
	a.insets = textInsets{left: left, right: right, top: top, bottom: bottom, set: true}
}

// GetActiveParagraph returns the last paragraph, creating one if needed.
func (a *AutoShape) GetActiveParagraph() *Paragraph {
	if len(a.paragraphs) == 0 {
		a.paragraphs = append(a.paragraphs, NewParagraph())
	}
	return a.paragraphs[len(a.paragraphs)-1]
}

// CreateParagraph creates a new paragraph and makes it active.
func (a *AutoShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	a.paragraphs = append(a.paragraphs, p)
	return p
}

// GetParagraphs returns the shape's paragraphs (may be empty).
func (a *AutoShape) GetParagraphs() []*Paragraph {
	return a.paragraphs
}

// DrawingShape represents an embedded image.
type DrawingShape struct {
	BaseShape
	path     string // source file path, used when data is nil
	data     []byte // raw image data
	mimeType string
}

func (d *DrawingShape) GetType() ShapeType { return ShapeTypeDrawing }

// NewDrawingShape creates a new drawing shape.
func NewDrawingShape() *DrawingShape {
	return &DrawingShape{}
}

// SetPath sets the image file path.
func (d *DrawingShape) SetPath(path string) *DrawingShape {
	d.path = path
	return d
}

// GetPath returns the image file path.
func (d *DrawingShape) GetPath() string { return d.path }

// SetImageData sets the raw image data.
func (d *DrawingShape) SetImageData(data []byte, mimeType string) *DrawingShape {
	d.data = data
	d.mimeType = mimeType
	return d
}

// GetImageData returns the raw image data.
func (d *DrawingShape) GetImageData() []byte { return d.data }

// GetMimeType returns the image MIME type.
func (d *DrawingShape) GetMimeType() string { return d.mimeType }

// maxImageFileSize is the maximum allowed size for an image file loaded from disk.
const maxImageFileSize = 50 << 20 // 50 MB

// SetImageFromFile loads an image from a file path and sets the data and MIME type.
// Returns an error if the file exceeds maxImageFileSize or cannot be read.
func (d *DrawingShape) SetImageFromFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.Size() > maxImageFileSize {
		return fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), maxImageFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}
	d.data = data
	d.mimeType = guessMimeFromPath(path)
	d.path = path
	return nil
}

// guessMimeFromPath guesses the MIME type from a file extension.
func guessMimeFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}

// LineShape represents a connector between two points.
type LineShape struct {
	BaseShape
	connectorType string // prstGeom value: "line", "bentConnector3", "curvedConnector3"
	lineWidthEMU  int64
	lineColor     Color
	lineOpacity   float64
}

func (l *LineShape) GetType() ShapeType { return ShapeTypeLine }

// NewLineShape creates a new straight line shape.
func NewLineShape() *LineShape {
	return &LineShape{
		connectorType: string(ConnectorStraight),
		lineWidthEMU:  Point(1),
		lineColor:     ColorBlack,
		lineOpacity:   1.0,
	}
}

// SetConnectorType sets the connector routing (prstGeom value).
func (l *LineShape) SetConnectorType(t string) *LineShape {
	l.connectorType = t
	return l
}

// GetConnectorType returns the connector routing.
func (l *LineShape) GetConnectorType() string { return l.connectorType }

// SetLineWidthEMU sets the line width in EMU.
func (l *LineShape) SetLineWidthEMU(w int64) *LineShape {
	l.lineWidthEMU = w
	return l
}

// GetLineWidthEMU returns the line width in EMU.
func (l *LineShape) GetLineWidthEMU() int64 { return l.lineWidthEMU }

// SetLineColor sets the line color.
func (l *LineShape) SetLineColor(c Color) *LineShape {
	l.lineColor = c
	return l
}

// GetLineColor returns the line color.
func (l *LineShape) GetLineColor() Color { return l.lineColor }

// SetLineOpacity sets the line opacity (clamped to [0, 1]).
func (l *LineShape) SetLineOpacity(op float64) *LineShape {
	l.lineOpacity = clamp01(op)
	return l
}

// GetLineOpacity returns the line opacity.
func (l *LineShape) GetLineOpacity() float64 { return l.lineOpacity }

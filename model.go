package godeck

// The input document model. A caller constructs a PresentationDocument,
// hands it to a Synthesizer, and discards it after the call. The engine
// never mutates the caller's model: asset resolution returns a new
// document (see ResolveAssets).

// PresentationDocument is the root of the input model. Shapes listed at
// the document level are global: they are appended to every slide's shape
// list before rendering, sharing the same underlying values across slides.
type PresentationDocument struct {
	Name   string
	Shapes []ShapeModel
	Slides []*SlideModel
}

// SlideModel describes one slide of the input model.
type SlideModel struct {
	Background *Fill
	Note       string
	Shapes     []ShapeModel
}

// ShapeModel is the closed union of input shape variants: TextBoxModel,
// AutoShapeModel, PictureModel, and ConnectorModel.
type ShapeModel interface {
	shapeModel()
}

func (*TextBoxModel) shapeModel()   {}
func (*AutoShapeModel) shapeModel() {}
func (*PictureModel) shapeModel()   {}
func (*ConnectorModel) shapeModel() {}

// TextBoxModel is a plain text frame. The margin is applied only as a
// text inset; the box itself is placed at its unshrunk position.
type TextBoxModel struct {
	Position   Position
	Margin     *Spacing
	Fill       *Fill
	WordWrap   bool
	Paragraphs []*ParagraphModel
}

// NewTextBox creates a TextBoxModel with word wrap enabled.
func NewTextBox(pos Position, paragraphs ...*ParagraphModel) *TextBoxModel {
	return &TextBoxModel{Position: pos, WordWrap: true, Paragraphs: paragraphs}
}

// AutoShapeModel is a preset-geometry shape, optionally carrying text.
// BorderRadius (points) is normalized at render time to a fraction of the
// shorter side and applied as the geometry's adjustment value; 0 means no
// rounding.
type AutoShapeModel struct {
	Preset       AutoShapeType
	Position     Position
	Margin       *Spacing
	Fill         *Fill
	Stroke       *Stroke
	Shadow       *Shadow
	WordWrap     bool
	BorderRadius int
	Paragraphs   []*ParagraphModel
}

// NewAutoShape creates a rectangle AutoShapeModel with word wrap enabled.
func NewAutoShape(pos Position) *AutoShapeModel {
	return &AutoShapeModel{Preset: AutoShapeRectangle, Position: pos, WordWrap: true}
}

// BoxShape is an optional whole-picture mask.
type BoxShape string

const (
	BoxShapeNone   BoxShape = ""
	BoxShapeCircle BoxShape = "circle"
)

// FitMode selects how a picture is fitted into its box.
type FitMode string

const (
	FitContain FitMode = "contain"
	FitCover   FitMode = "cover"
	FitFill    FitMode = "fill"
)

// ObjectFit pairs a fit mode with an optional focal point. Focus values
// are percentages (0-100) biasing which region of the source is kept.
type ObjectFit struct {
	Mode  FitMode
	Focus *[2]float64
}

// PictureSource locates a picture's bytes. Remote sources carry an
// http(s) URL until asset resolution rewrites Path to a local file and
// clears Remote.
type PictureSource struct {
	Path   string
	Remote bool
}

// PictureModel is an embedded image. BorderRadius, when present, holds
// exactly four per-corner radii in points, ordered top-left, top-right,
// bottom-right, bottom-left. Opacity nil means untouched alpha.
type PictureModel struct {
	Position     Position
	Margin       *Spacing
	Clip         bool
	Opacity      *float64
	Invert       bool
	BorderRadius []int
	Shape        BoxShape
	ObjectFit    *ObjectFit
	Source       PictureSource
}

// NewPicture creates a PictureModel with clipping enabled.
func NewPicture(pos Position, source PictureSource) *PictureModel {
	return &PictureModel{Position: pos, Clip: true, Source: source}
}

// transformed reports whether the raster pipeline must run for this
// picture instead of embedding the source bytes directly.
func (p *PictureModel) transformed() bool {
	return p.Clip ||
		len(p.BorderRadius) > 0 ||
		p.Invert ||
		p.Opacity != nil ||
		p.ObjectFit != nil ||
		p.Shape != BoxShapeNone
}

// ConnectorKind selects the connector routing.
type ConnectorKind string

const (
	ConnectorStraight ConnectorKind = "line"
	ConnectorElbow    ConnectorKind = "bentConnector3"
	ConnectorCurved   ConnectorKind = "curvedConnector3"
)

// ConnectorModel is a line between the position's two implied corner
// points. Thickness 0 suppresses the shape entirely.
type ConnectorModel struct {
	Kind      ConnectorKind
	Position  Position
	Thickness float64 // in points
	Color     Color
	Opacity   float64
}

// NewConnector creates a straight ConnectorModel with the engine defaults.
func NewConnector(pos Position) *ConnectorModel {
	return &ConnectorModel{
		Kind:      ConnectorStraight,
		Position:  pos,
		Thickness: 0.5,
		Color:     ColorBlack,
		Opacity:   1.0,
	}
}

// ParagraphModel describes one paragraph of a text-carrying shape.
// Text and Runs are mutually exclusive: a non-empty Text is parsed as
// inline markup and wins over Runs; both absent yields an empty paragraph.
type ParagraphModel struct {
	Spacing    *Spacing // Top = space before, Bottom = space after, in points
	Alignment  HorizontalAlignment
	Font       *Font
	LineHeight float64 // line-spacing multiplier; 0 means unset
	Text       string
	Runs       []*TextRunModel
}

// TextRunModel is literal text plus an optional fully resolved font.
// A run with Text "\n" and a nil font marks an explicit line break.
type TextRunModel struct {
	Text string
	Font *Font
}

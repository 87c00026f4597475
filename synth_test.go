package godeck

import (
	"archive/zip"
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestImage writes a decodable PNG to dir and returns its path.
func writeTestImage(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "src.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, gradientImage(w, h)); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	return NewSynthesizer(SynthesizerOptions{ScratchDir: t.TempDir()})
}

func TestSynthesizerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestImage(t, dir, 200, 100)

	pic := NewPicture(NewPosition(500, 100, 120, 120), PictureSource{Path: imgPath})
	doc := &PresentationDocument{
		Name: "quarterly",
		Slides: []*SlideModel{
			{Shapes: []ShapeModel{
				NewTextBox(NewPosition(40, 40, 400, 60), &ParagraphModel{Text: "hello world"}),
				pic,
			}},
		},
	}

	s := newTestSynthesizer(t)
	p, err := s.Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p.GetSlideCount() != 1 {
		t.Fatalf("slides = %d, want 1", p.GetSlideCount())
	}
	if p.GetDocumentProperties().Title != "quarterly" {
		t.Errorf("title = %q", p.GetDocumentProperties().Title)
	}

	slide, _ := p.GetSlide(0)
	shapes := slide.GetShapes()
	if len(shapes) != 2 {
		t.Fatalf("shapes = %d, want 2", len(shapes))
	}
	// Output order matches input order.
	if _, ok := shapes[0].(*RichTextShape); !ok {
		t.Errorf("shape 0 = %T, want *RichTextShape", shapes[0])
	}
	if _, ok := shapes[1].(*DrawingShape); !ok {
		t.Errorf("shape 1 = %T, want *DrawingShape", shapes[1])
	}

	// Full save produces a readable package.
	out := filepath.Join(dir, "deck.pptx")
	if err := s.Synthesize(context.Background(), doc, out); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output unreadable: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("output is not a valid package: %v", err)
	}
}

func TestSynthesizerConnectorZeroThicknessSkipped(t *testing.T) {
	conn := NewConnector(NewPosition(0, 0, 100, 50))
	conn.Thickness = 0
	doc := &PresentationDocument{
		Slides: []*SlideModel{
			{Shapes: []ShapeModel{
				conn,
				NewTextBox(NewPosition(0, 0, 100, 20), &ParagraphModel{Text: "still here"}),
			}},
		},
	}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	if n := slide.GetShapeCount(); n != 1 {
		t.Fatalf("shapes = %d, want 1 (connector suppressed)", n)
	}
	if _, ok := slide.GetShapes()[0].(*RichTextShape); !ok {
		t.Error("surviving shape should be the text box")
	}
}

func TestSynthesizerConnector(t *testing.T) {
	conn := NewConnector(NewPosition(10, 20, 300, 150))
	conn.Kind = ConnectorElbow
	conn.Thickness = 2
	conn.Color = NewColor("FF00FF00")
	conn.Opacity = 0.5
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{conn}}}}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	ls, ok := slide.GetShapes()[0].(*LineShape)
	if !ok {
		t.Fatalf("shape = %T, want *LineShape", slide.GetShapes()[0])
	}
	if ls.GetConnectorType() != "bentConnector3" {
		t.Errorf("connector type = %s", ls.GetConnectorType())
	}
	if ls.GetLineWidthEMU() != Point(2) {
		t.Errorf("width = %d, want %d", ls.GetLineWidthEMU(), Point(2))
	}
	if ls.GetLineOpacity() != 0.5 {
		t.Errorf("opacity = %g", ls.GetLineOpacity())
	}
	// The box is the two connector endpoints.
	x1, y1, x2, y2 := conn.Position.XYXY()
	if ls.GetOffsetX() != x1 || ls.GetOffsetY() != y1 {
		t.Errorf("origin = (%d, %d), want (%d, %d)", ls.GetOffsetX(), ls.GetOffsetY(), x1, y1)
	}
	if ls.GetWidth() != x2-x1 || ls.GetHeight() != y2-y1 {
		t.Errorf("extent = (%d, %d), want (%d, %d)", ls.GetWidth(), ls.GetHeight(), x2-x1, y2-y1)
	}
}

func TestSynthesizerGlobalShapes(t *testing.T) {
	global := NewTextBox(NewPosition(0, 700, 1280, 20), &ParagraphModel{Text: "footer"})
	doc := &PresentationDocument{
		Shapes: []ShapeModel{global},
		Slides: []*SlideModel{
			{Shapes: []ShapeModel{NewTextBox(NewPosition(0, 0, 100, 20), &ParagraphModel{Text: "one"})}},
			{Shapes: []ShapeModel{NewTextBox(NewPosition(0, 0, 100, 20), &ParagraphModel{Text: "two"})}},
		},
	}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		slide, _ := p.GetSlide(i)
		if n := slide.GetShapeCount(); n != 2 {
			t.Errorf("slide %d shapes = %d, want 2 (own + global)", i, n)
		}
	}
}

func TestSynthesizerAutoShape(t *testing.T) {
	m := NewAutoShape(NewPosition(100, 100, 200, 100))
	m.Preset = AutoShapeRoundedRect
	m.Margin = SpacingAll(10)
	m.Fill = SolidFill(NewColor("FF336699"))
	m.Stroke = NewStroke(ColorBlack, 1)
	m.Shadow = NewShadow(4)
	m.BorderRadius = 8
	m.Paragraphs = []*ParagraphModel{{Text: "label", Alignment: AlignCenter}}
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	as, ok := slide.GetShapes()[0].(*AutoShape)
	if !ok {
		t.Fatalf("shape = %T, want *AutoShape", slide.GetShapes()[0])
	}

	// Box shrunk by the margin.
	if as.GetOffsetX() != Point(110) || as.GetWidth() != Point(180) || as.GetHeight() != Point(80) {
		t.Errorf("geometry = (%d, %d, %d)", as.GetOffsetX(), as.GetWidth(), as.GetHeight())
	}
	if as.GetFill() == nil || as.GetStroke() == nil {
		t.Error("fill/stroke not applied")
	}

	// Shadow synthesized into the effect list.
	lst := as.GetEffectList()
	if lst == nil || lst.FindChild("a:outerShdw") == nil {
		t.Error("missing outer shadow effect")
	}

	// Border radius as a fraction of the shorter (shrunk) side.
	frac, set := as.GetAdjustment()
	if !set {
		t.Fatal("adjustment not set")
	}
	want := float64(Point(8)) / float64(Point(80))
	if frac < want-0.001 || frac > want+0.001 {
		t.Errorf("adjustment = %g, want %g", frac, want)
	}

	paras := as.GetParagraphs()
	if len(paras) != 1 || paras[0].GetAlignment() != AlignCenter {
		t.Errorf("paragraphs = %+v", paras)
	}
}

func TestSynthesizerAutoShapeNoShadowStillOverrides(t *testing.T) {
	m := NewAutoShape(NewPosition(0, 0, 100, 100))
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	as := slide.GetShapes()[0].(*AutoShape)
	outer := as.GetEffectList().FindChild("a:outerShdw")
	if outer == nil {
		t.Fatal("absent shadow must still write an explicit zero shadow")
	}
	clr := outer.FindChild("a:srgbClr")
	if clr == nil || clr.FindChild("a:alpha").Attrs[0].Value != "0" {
		t.Error("zero shadow should carry alpha 0")
	}
}

func TestSynthesizerTextBox(t *testing.T) {
	m := NewTextBox(NewPosition(50, 60, 300, 80), &ParagraphModel{Text: "x"})
	m.Margin = SpacingAll(5)
	m.Fill = SolidFill(ColorWhite)
	m.WordWrap = false
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	rt := slide.GetShapes()[0].(*RichTextShape)

	// Unshrunk position, width padded by two points.
	if rt.GetOffsetX() != Point(50) || rt.GetOffsetY() != Point(60) {
		t.Errorf("origin = (%d, %d)", rt.GetOffsetX(), rt.GetOffsetY())
	}
	if rt.GetWidth() != Point(300)+Point(2) {
		t.Errorf("width = %d, want %d", rt.GetWidth(), Point(300)+Point(2))
	}
	if rt.GetWordWrap() {
		t.Error("word wrap should be off")
	}
	if rt.GetFill() == nil {
		t.Error("fill not applied")
	}
}

func TestSynthesizerParagraphMapping(t *testing.T) {
	font := DefaultFont().SetSize(20)
	m := NewTextBox(NewPosition(0, 0, 400, 200),
		&ParagraphModel{
			Text:       "a <b>bold</b> word",
			Alignment:  AlignRight,
			Font:       font,
			LineHeight: 1.5,
			Spacing:    &Spacing{Top: 6, Bottom: 12},
		},
		&ParagraphModel{
			Runs: []*TextRunModel{{Text: "pre\nbuilt", Font: font}},
		},
	)
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	rt := slide.GetShapes()[0].(*RichTextShape)
	paras := rt.GetParagraphs()
	if len(paras) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(paras))
	}

	first := paras[0]
	if first.GetAlignment() != AlignRight {
		t.Errorf("alignment = %s", first.GetAlignment())
	}
	if first.GetLineSpacing() != -150000 {
		t.Errorf("line spacing = %d, want -150000", first.GetLineSpacing())
	}
	elems := first.GetElements()
	if len(elems) != 3 {
		t.Fatalf("elements = %d, want 3 runs", len(elems))
	}
	bold, ok := elems[1].(*TextRun)
	if !ok || bold.GetText() != "bold" || !bold.GetFont().Bold() {
		t.Errorf("middle run = %+v", elems[1])
	}

	// A pre-built run with an embedded newline splits around a break.
	second := paras[1].GetElements()
	if len(second) != 3 {
		t.Fatalf("second paragraph elements = %d, want run/break/run", len(second))
	}
	if _, ok := second[1].(*BreakElement); !ok {
		t.Errorf("element 1 = %T, want *BreakElement", second[1])
	}
}

func TestSynthesizerPicturePipeline(t *testing.T) {
	srcDir := t.TempDir()
	imgPath := writeTestImage(t, srcDir, 300, 150)
	scratch := t.TempDir()

	m := NewPicture(NewPosition(0, 0, 100, 100), PictureSource{Path: imgPath})
	m.Clip = true
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	s := NewSynthesizer(SynthesizerOptions{ScratchDir: scratch})
	p, err := s.Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	ds := slide.GetShapes()[0].(*DrawingShape)

	if filepath.Dir(ds.GetPath()) != scratch {
		t.Errorf("pipeline output %s not in scratch dir", ds.GetPath())
	}
	f, err := os.Open(ds.GetPath())
	if err != nil {
		t.Fatalf("scratch image unreadable: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("scratch image not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Errorf("clipped image = %dx%d, want 100x100", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestSynthesizerPictureMarginMovesBoxNotCrop(t *testing.T) {
	srcDir := t.TempDir()
	imgPath := writeTestImage(t, srcDir, 300, 150)
	scratch := t.TempDir()

	m := NewPicture(NewPosition(0, 0, 100, 60), PictureSource{Path: imgPath})
	m.Clip = true
	m.Margin = &Spacing{Left: 20, Right: 20}
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	s := NewSynthesizer(SynthesizerOptions{ScratchDir: scratch})
	p, err := s.Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	ds := slide.GetShapes()[0].(*DrawingShape)

	// The margin shrinks the emitted shape but not the crop box: the
	// clip still targets the full model extents.
	if ds.GetOffsetX() != Point(20) || ds.GetWidth() != Point(60) {
		t.Errorf("shape box = (%d, %d), want (%d, %d)",
			ds.GetOffsetX(), ds.GetWidth(), Point(20), Point(60))
	}
	f, err := os.Open(ds.GetPath())
	if err != nil {
		t.Fatalf("scratch image unreadable: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("scratch image not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 60 {
		t.Errorf("clipped image = %dx%d, want 100x60",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestBuildRemovesImplicitScratchDir(t *testing.T) {
	srcDir := t.TempDir()
	imgPath := writeTestImage(t, srcDir, 80, 80)

	m := NewPicture(NewPosition(0, 0, 40, 40), PictureSource{Path: imgPath})
	m.Clip = true
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	before, err := filepath.Glob(filepath.Join(os.TempDir(), "godeck-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}

	p, err := NewSynthesizer(SynthesizerOptions{}).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "godeck-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("scratch directories leaked: %d before, %d after", len(before), len(after))
	}

	// The picture bytes survive in memory for the package writer.
	slide, _ := p.GetSlide(0)
	ds := slide.GetShapes()[0].(*DrawingShape)
	if len(ds.GetImageData()) == 0 {
		t.Error("image data not retained after scratch cleanup")
	}
}

func TestSynthesizerPictureWithoutTransformEmbedsDirectly(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestImage(t, dir, 50, 50)

	m := NewPicture(NewPosition(0, 0, 100, 100), PictureSource{Path: imgPath})
	m.Clip = false
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{m}}}}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	ds := slide.GetShapes()[0].(*DrawingShape)
	if ds.GetPath() != imgPath {
		t.Errorf("path = %s, want untouched source %s", ds.GetPath(), imgPath)
	}
}

func TestSynthesizerUnreadablePictureSkipped(t *testing.T) {
	m := NewPicture(NewPosition(0, 0, 100, 100), PictureSource{Path: "/nonexistent/img.png"})
	m.Clip = false
	doc := &PresentationDocument{
		Slides: []*SlideModel{
			{Shapes: []ShapeModel{
				m,
				NewTextBox(NewPosition(0, 0, 100, 20), &ParagraphModel{Text: "survives"}),
			}},
		},
	}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("a bad picture must not abort synthesis: %v", err)
	}
	slide, _ := p.GetSlide(0)
	if n := slide.GetShapeCount(); n != 1 {
		t.Errorf("shapes = %d, want 1 (picture skipped)", n)
	}
}

func TestSynthesizerBackgroundAndNotes(t *testing.T) {
	doc := &PresentationDocument{
		Slides: []*SlideModel{
			{
				Background: SolidFill(NewColor("FF222222")),
				Note:       "speaker note",
			},
		},
	}

	p, err := newTestSynthesizer(t).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	slide, _ := p.GetSlide(0)
	if slide.GetBackground() == nil {
		t.Error("background not applied")
	}
	if slide.GetNotes() != "speaker note" {
		t.Errorf("notes = %q", slide.GetNotes())
	}
}

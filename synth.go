package godeck

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	// Decoders for the picture formats the raster pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// SynthesizerOptions configures a Synthesizer.
type SynthesizerOptions struct {
	// ScratchDir receives downloaded assets and intermediate bitmaps.
	// It must be exclusive to one synthesis call. Empty means a fresh
	// temp directory per call.
	ScratchDir string
	// Assets configures remote picture resolution.
	Assets AssetOptions
	// Logger receives non-fatal shape-level failures. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Synthesizer turns a PresentationDocument into a presentation file.
// Shape-level problems (unreadable pictures, failed downloads) are logged
// and skipped; only an invalid document or an unwritable destination is
// fatal.
type Synthesizer struct {
	opts SynthesizerOptions
	log  *slog.Logger
}

func NewSynthesizer(opts SynthesizerOptions) *Synthesizer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Synthesizer{opts: opts, log: log}
}

// Synthesize builds the document and writes it to path. On failure no
// partial file is left behind.
func (s *Synthesizer) Synthesize(ctx context.Context, doc *PresentationDocument, path string) error {
	p, err := s.Build(ctx, doc)
	if err != nil {
		return err
	}
	return NewPPTXWriter(p).Save(path)
}

// Build assembles the in-memory presentation for doc without saving it.
func (s *Synthesizer) Build(ctx context.Context, doc *PresentationDocument) (*Presentation, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	scratch := s.opts.ScratchDir
	if scratch == "" {
		dir, err := os.MkdirTemp("", "godeck-")
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
		// Picture bytes are read into memory as shapes are added, so an
		// implicit scratch directory can go once the build is done.
		defer os.RemoveAll(dir)
		scratch = dir
	}

	// Asset resolution runs once, before any slide is built.
	resolved, err := ResolveAssets(ctx, doc, scratch, s.opts.Assets)
	if err != nil {
		return nil, err
	}

	p := New()
	if resolved.Name != "" {
		p.GetDocumentProperties().Title = resolved.Name
	}

	for _, slideModel := range resolved.Slides {
		sl := p.CreateSlide()
		if slideModel.Background != nil {
			sl.SetBackground(slideModel.Background)
		}
		if slideModel.Note != "" {
			sl.SetNotes(slideModel.Note)
		}

		shapes := make([]ShapeModel, 0, len(slideModel.Shapes)+len(resolved.Shapes))
		shapes = append(shapes, slideModel.Shapes...)
		shapes = append(shapes, resolved.Shapes...)

		for _, shape := range shapes {
			switch m := shape.(type) {
			case *TextBoxModel:
				s.addTextBox(sl, m)
			case *AutoShapeModel:
				s.addAutoShape(sl, m)
			case *PictureModel:
				s.addPicture(sl, m, scratch)
			case *ConnectorModel:
				s.addConnector(sl, m)
			}
		}
	}

	return p, nil
}

// --- Text box ---

func (s *Synthesizer) addTextBox(sl *Slide, m *TextBoxModel) {
	rt := sl.CreateRichTextShape()

	// The box keeps its unshrunk position; the margin becomes a text
	// inset only. The extra two points of width compensate for the
	// format's default internal padding.
	x, y, cx, cy := m.Position.EMU()
	rt.SetPosition(x, y)
	rt.SetSize(cx+Point(2), cy)
	rt.SetWordWrap(m.WordWrap)
	rt.SetFill(m.Fill)

	var mg Spacing
	if m.Margin != nil {
		mg = *m.Margin
	}
	rt.SetInsets(Point(mg.Left), Point(mg.Right), Point(mg.Top), Point(mg.Bottom))

	s.addParagraphs(rt, m.Paragraphs)
}

// --- Auto shape ---

func (s *Synthesizer) addAutoShape(sl *Slide, m *AutoShapeModel) {
	as := sl.CreateAutoShape()
	if m.Preset != "" {
		as.SetAutoShapeType(m.Preset)
	}

	pos := m.Position
	if m.Margin != nil {
		pos = pos.Shrink(m.Margin)
	}
	x, y, cx, cy := pos.EMU()
	as.SetPosition(x, y)
	as.SetSize(cx, cy)
	as.SetWordWrap(m.WordWrap)
	as.SetFill(m.Fill)
	as.SetStroke(m.Stroke)

	// The margin is applied a second time as a text inset, on top of
	// the box shrink above. Existing content depends on the doubled
	// inset, so it stays.
	var mg Spacing
	if m.Margin != nil {
		mg = *m.Margin
	}
	as.SetInsets(Point(mg.Left), Point(mg.Right), Point(mg.Top), Point(mg.Bottom))

	// An explicit zero shadow overrides anything inherited from the
	// theme, so the effect list is always written.
	ReplaceOuterShadow(as.EnsureEffectList(), m.Shadow)

	if m.BorderRadius > 0 {
		short := cx
		if cy < short {
			short = cy
		}
		if short > 0 {
			frac := float64(Point(float64(m.BorderRadius))) / float64(short)
			if frac > 0.5 {
				frac = 0.5
			}
			as.SetAdjustment(frac)
		} else {
			s.log.Warn("cannot apply border radius to zero-extent shape")
		}
	}

	s.addParagraphs(as, m.Paragraphs)
}

// --- Picture ---

func (s *Synthesizer) addPicture(sl *Slide, m *PictureModel, scratch string) {
	if m.Source.Remote {
		s.log.Warn("skipping picture with unresolved remote source", "url", m.Source.Path)
		return
	}

	pos := m.Position
	if m.Margin != nil {
		pos = pos.Shrink(m.Margin)
	}

	path := m.Source.Path
	if m.transformed() {
		rendered, err := s.renderPicture(m, scratch)
		if err != nil {
			s.log.Warn("skipping picture, raster pipeline failed",
				"path", m.Source.Path, "error", err)
			return
		}
		path = rendered
	}

	ds := NewDrawingShape()
	if err := ds.SetImageFromFile(path); err != nil {
		s.log.Warn("skipping picture, source unreadable", "path", path, "error", err)
		return
	}

	x, y, cx, cy := pos.EMU()
	ds.SetPosition(x, y)
	ds.SetSize(cx, cy)
	sl.AddShape(ds)
}

// renderPicture runs the raster pipeline over a picture source and writes
// the result as a PNG in the scratch directory. The clip/fit box uses the
// unshrunk model extents; the margin only moves the emitted shape.
func (s *Synthesizer) renderPicture(m *PictureModel, scratch string) (string, error) {
	f, err := os.Open(m.Source.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	decoded, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", m.Source.Path, err)
	}

	img := ToNRGBA(decoded)

	var radii [4]int
	if len(m.BorderRadius) == 4 {
		copy(radii[:], m.BorderRadius)
	}
	hasRadii := radii != [4]int{}

	if hasRadii {
		img = RoundCorners(img, radii)
	}

	boxW, boxH := int(m.Position.Width), int(m.Position.Height)
	switch {
	case m.ObjectFit != nil:
		img = FitImage(img, boxW, boxH, *m.ObjectFit)
	case m.Clip:
		img = CropToCover(img, boxW, boxH, 50, 50)
	}

	// Resizing can reintroduce square corners at the new dimensions,
	// so the corner mask is applied again at final size.
	if hasRadii {
		img = RoundCorners(img, radii)
	}

	if m.Shape == BoxShapeCircle {
		img = MaskCircle(img)
	}
	if m.Invert {
		img = InvertChannels(img)
	}
	if m.Opacity != nil {
		img = ScaleAlpha(img, clamp01(*m.Opacity))
	}

	out := filepath.Join(scratch, uuid.NewString()+".png")
	of, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch image: %w", err)
	}
	if err := png.Encode(of, img); err != nil {
		of.Close()
		os.Remove(out)
		return "", fmt.Errorf("failed to encode scratch image: %w", err)
	}
	if err := of.Close(); err != nil {
		return "", err
	}
	return out, nil
}

// --- Connector ---

func (s *Synthesizer) addConnector(sl *Slide, m *ConnectorModel) {
	if m.Thickness <= 0 {
		return
	}

	ls := sl.CreateLineShape()
	if m.Kind != "" {
		ls.SetConnectorType(string(m.Kind))
	}
	x1, y1, x2, y2 := m.Position.XYXY()
	ls.SetPosition(x1, y1)
	ls.SetSize(x2-x1, y2-y1)
	ls.SetLineWidthEMU(Point(m.Thickness))
	ls.SetLineColor(m.Color)
	ls.SetLineOpacity(m.Opacity)
}

// --- Paragraphs ---

// paragraphHost is any shape that can hold paragraph content.
type paragraphHost interface {
	GetActiveParagraph() *Paragraph
	CreateParagraph() *Paragraph
}

func (s *Synthesizer) addParagraphs(host paragraphHost, models []*ParagraphModel) {
	for i, pm := range models {
		if pm == nil {
			continue
		}
		var para *Paragraph
		if i == 0 {
			para = host.GetActiveParagraph()
		} else {
			para = host.CreateParagraph()
		}

		if pm.Spacing != nil {
			para.SetSpaceBefore(int(pm.Spacing.Top * 100))
			para.SetSpaceAfter(int(pm.Spacing.Bottom * 100))
		}
		if pm.Alignment != "" {
			para.SetAlignment(pm.Alignment)
		}
		if pm.Font != nil {
			para.SetFont(pm.Font)
		}
		if pm.LineHeight > 0 {
			para.SetLineSpacing(-int(pm.LineHeight * 100000))
		}

		runs := pm.Runs
		if pm.Text != "" {
			runs = ParseInlineMarkup(pm.Text, pm.Font)
		}
		for _, run := range runs {
			if run == nil {
				continue
			}
			if run.Font == nil && run.Text == "\n" {
				para.CreateBreak()
				continue
			}
			for j, part := range strings.Split(run.Text, "\n") {
				if j > 0 {
					para.CreateBreak()
				}
				if part == "" {
					continue
				}
				tr := para.CreateTextRun(part)
				tr.SetFont(run.Font)
			}
		}
	}
}

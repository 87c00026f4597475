package godeck

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
)

// countShapeRels returns the number of relationship IDs consumed by a shape.
// Images each consume one relId.
func countShapeRels(shape Shape) int {
	if s, ok := shape.(*DrawingShape); ok {
		if s.data != nil || s.path != "" {
			return 1
		}
	}
	return 0
}

// countRelIdxBefore computes the relIdx for a target shape within a slide,
// counting the image rels of all shapes before it.
func countRelIdxBefore(shapes []Shape, target Shape) int {
	relIdx := 2 // rId1 is slideLayout
	for _, shape := range shapes {
		if shape == target {
			break
		}
		relIdx += countShapeRels(shape)
	}
	return relIdx
}

func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *Slide, slideNum int) error {

	var shapesXML strings.Builder
	shapeID := 2 // 1 is reserved for the group shape

	for _, shape := range slide.shapes {
		switch s := shape.(type) {
		case *RichTextShape:
			shapesXML.WriteString(w.writeRichTextShapeXML(s, &shapeID))
		case *AutoShape:
			shapesXML.WriteString(w.writeAutoShapeXML(s, &shapeID))
		case *DrawingShape:
			shapesXML.WriteString(w.writeDrawingShapeXML(s, &shapeID, slideNum))
		case *LineShape:
			shapesXML.WriteString(w.writeLineShapeXML(s, &shapeID))
		}
	}

	// Background XML
	bgXML := ""
	if slide.background != nil {
		bgXML = "    <p:bg>\n      <p:bgPr>\n"
		bgXML += w.writeFillXML(slide.background)
		bgXML += "        <a:effectLst/>\n      </p:bgPr>\n    </p:bg>\n"
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
%s    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, bgXML, shapesXML.String())

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slide *Slide, slideNum int) error {
	var rels strings.Builder
	fmt.Fprintf(&rels, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="../slideLayouts/slideLayout1.xml"/>`, nsRelationships, relTypeSlideLayout)

	relIdx := 2
	for _, shape := range slide.shapes {
		if s, ok := shape.(*DrawingShape); ok && (s.data != nil || s.path != "") {
			imgIdx := w.getImageIndex(s)
			ext := w.getImageExtension(s)
			fmt.Fprintf(&rels, `
  <Relationship Id="rId%d" Type="%s" Target="../media/image%d.%s"/>`,
				relIdx, relTypeImage, imgIdx, ext)
			relIdx++
		}
	}

	// Notes slide relationship
	if slide.notes != "" {
		fmt.Fprintf(&rels, `
  <Relationship Id="rId%d" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`,
			relIdx, relTypeNotesSlide, slideNum)
		relIdx++
	}

	rels.WriteString(`
</Relationships>`)
	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels.String())
}

func (w *PPTXWriter) getImageIndex(target *DrawingShape) int {
	idx := 1
	for _, sl := range w.presentation.slides {
		for _, ds := range collectDrawingShapes(sl.shapes) {
			if ds == target {
				return idx
			}
			idx++
		}
	}
	return idx
}

// collectDrawingShapes returns all DrawingShapes from a shape list that
// carry image data or a file path.
func collectDrawingShapes(shapes []Shape) []*DrawingShape {
	var result []*DrawingShape
	for _, shape := range shapes {
		if s, ok := shape.(*DrawingShape); ok {
			if s.data != nil || s.path != "" {
				result = append(result, s)
			}
		}
	}
	return result
}

// xfrmAttrs builds the attribute string for <a:xfrm> including rotation and flip.
func xfrmAttrs(b *BaseShape) string {
	var sb strings.Builder
	if b.rotation != 0 {
		fmt.Fprintf(&sb, ` rot="%d"`, b.rotation*60000)
	}
	if b.flipHorizontal {
		sb.WriteString(` flipH="1"`)
	}
	if b.flipVertical {
		sb.WriteString(` flipV="1"`)
	}
	return sb.String()
}

// --- Rich Text Shape XML ---

func (w *PPTXWriter) writeRichTextShapeXML(s *RichTextShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("TextBox %d", id)
	}

	xfAttrs := xfrmAttrs(&s.BaseShape)

	fillXML := w.writeFillXML(s.GetFill())
	strokeXML := ""
	if s.stroke != nil {
		strokeXML = w.writeStrokeXML(s.GetStroke())
	}
	effectsXML := effectListXML(s.effects)

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(w.writeParagraphXML(para))
	}

	descrAttr := ""
	if s.description != "" {
		descrAttr = fmt.Sprintf(` descr="%s"`, xmlEscape(s.description))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s%s%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s"%s/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(name), descrAttr, xfAttrs,
		s.offsetX, s.offsetY, s.width, s.height,
		fillXML, strokeXML, effectsXML,
		boolToWrap(s.wordWrap), insetAttrs(s.insets),
		paragraphsXML.String())
}

func boolToWrap(wrap bool) string {
	if wrap {
		return "square"
	}
	return "none"
}

// insetAttrs returns the text inset attributes for <a:bodyPr>, or "" when
// the shape uses the format defaults.
func insetAttrs(in textInsets) string {
	if !in.set {
		return ""
	}
	return fmt.Sprintf(` lIns="%d" tIns="%d" rIns="%d" bIns="%d"`,
		in.left, in.top, in.right, in.bottom)
}

// effectListXML serializes a shape's effect list element, if present.
func effectListXML(e *Element) string {
	if e == nil {
		return ""
	}
	return "          " + e.XML() + "\n"
}

func (w *PPTXWriter) writeParagraphXML(para *Paragraph) string {
	algn := ""
	if para.alignment != "" {
		algn = fmt.Sprintf(` algn="%s"`, para.alignment)
	}

	var elementsXML strings.Builder
	for _, elem := range para.elements {
		switch e := elem.(type) {
		case *TextRun:
			elementsXML.WriteString(w.writeTextRunXML(e))
		case *BreakElement:
			elementsXML.WriteString("            <a:br/>\n")
		}
	}

	spacing := ""
	if para.lineSpacing < 0 {
		// spcPct: stored as negative percentage * 1000
		spacing = fmt.Sprintf(`
            <a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, -para.lineSpacing)
	} else if para.lineSpacing > 0 {
		spacing = fmt.Sprintf(`
            <a:lnSpc><a:spcPts val="%d"/></a:lnSpc>`, para.lineSpacing)
	}
	if para.spaceBefore > 0 {
		spacing += fmt.Sprintf(`
            <a:spcBef><a:spcPts val="%d"/></a:spcBef>`, para.spaceBefore)
	}
	if para.spaceAfter > 0 {
		spacing += fmt.Sprintf(`
            <a:spcAft><a:spcPts val="%d"/></a:spcAft>`, para.spaceAfter)
	}

	defRPr := ""
	if para.font != nil {
		defRPr = "\n            " + fontPropsXML(para.font, "a:defRPr", "            ")
	}

	return fmt.Sprintf(`          <a:p>
            <a:pPr%s>%s%s
            </a:pPr>
%s          </a:p>
`, algn, spacing, defRPr, elementsXML.String())
}

func (w *PPTXWriter) writeTextRunXML(tr *TextRun) string {
	rPr := `<a:rPr lang="en-US" dirty="0"/>`
	if tr.font != nil {
		rPr = fontPropsXML(tr.font, "a:rPr", "              ")
	}

	return fmt.Sprintf(`            <a:r>
              %s
              <a:t>%s</a:t>
            </a:r>
`, rPr, xmlEscape(tr.text))
}

// fontPropsXML renders the run-property element (a:rPr or a:defRPr) for a font.
func fontPropsXML(font *Font, tag, indent string) string {
	attrs := fmt.Sprintf(` lang="en-US" sz="%d" dirty="0"`, font.Size*100)

	if font.Bold() {
		attrs += ` b="1"`
	}
	if font.Italic {
		attrs += ` i="1"`
	}
	if font.Underline != nil {
		if *font.Underline {
			attrs += ` u="sng"`
		} else {
			attrs += ` u="none"`
		}
	}
	if font.Strike != nil {
		if *font.Strike {
			attrs += ` strike="sngStrike"`
		} else {
			attrs += ` strike="noStrike"`
		}
	}

	solidFill := ""
	if font.Color.ARGB != "" {
		solidFill = fmt.Sprintf(`
%s  <a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, indent, colorRGB(font.Color))
	}

	latin := ""
	if font.Name != "" {
		latin = fmt.Sprintf(`
%s  <a:latin typeface="%s"/>`, indent, xmlEscape(font.Name))
	}

	if solidFill == "" && latin == "" {
		return fmt.Sprintf("<%s%s/>", tag, attrs)
	}
	return fmt.Sprintf(`<%s%s>%s%s
%s</%s>`, tag, attrs, solidFill, latin, indent, tag)
}

// --- Drawing Shape XML ---

func (w *PPTXWriter) writeDrawingShapeXML(s *DrawingShape, shapeID *int, slideNum int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Picture %d", id)
	}

	// Find the relationship ID for this image within the current slide.
	// Must match the ordering in writeSlideRels exactly.
	currentSlide := w.presentation.slides[slideNum-1]
	relIdx := countRelIdxBefore(currentSlide.shapes, s)

	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          <p:cNvPr id="%d" name="%s" descr="%s"/>
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="rId%d"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
        </p:spPr>
      </p:pic>
`, id, xmlEscape(name), xmlEscape(s.description),
		relIdx,
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height)
}

// --- Auto Shape XML ---

func (w *PPTXWriter) writeAutoShapeXML(s *AutoShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Shape %d", id)
	}

	fillXML := w.writeFillXML(s.GetFill())
	strokeXML := w.writeStrokeXML(s.GetStroke())
	effectsXML := effectListXML(s.effects)

	avLst := "<a:avLst/>"
	if frac, ok := s.GetAdjustment(); ok {
		avLst = fmt.Sprintf(`<a:avLst>
              <a:gd name="adj" fmla="val %d"/>
            </a:avLst>`, int(frac*100000))
	}

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(w.writeParagraphXML(para))
	}

	descrAttr := ""
	if s.description != "" {
		descrAttr = fmt.Sprintf(` descr="%s"`, xmlEscape(s.description))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvSpPr/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="%s">
            %s
          </a:prstGeom>
%s%s%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s"%s/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(name), descrAttr,
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		s.shapeType, avLst,
		fillXML, strokeXML, effectsXML,
		boolToWrap(s.wordWrap), insetAttrs(s.insets),
		paragraphsXML.String())
}

// --- Line Shape XML ---

func (w *PPTXWriter) writeLineShapeXML(s *LineShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Line %d", id)
	}

	prstGeom := "line"
	if s.connectorType != "" {
		prstGeom = s.connectorType
	}

	clrXML := fmt.Sprintf(`<a:srgbClr val="%s"/>`, colorRGB(s.lineColor))
	if s.lineOpacity < 1 {
		clrXML = fmt.Sprintf(`<a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr>`,
			colorRGB(s.lineColor), fixedAlpha(s.lineOpacity))
	}

	return fmt.Sprintf(`      <p:cxnSp>
        <p:nvCxnSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvCxnSpPr/>
          <p:nvPr/>
        </p:nvCxnSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="%s">
            <a:avLst/>
          </a:prstGeom>
          <a:ln w="%d">
            <a:solidFill>
              %s
            </a:solidFill>
          </a:ln>
        </p:spPr>
      </p:cxnSp>
`, id, xmlEscape(name),
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		prstGeom,
		s.lineWidthEMU,
		clrXML)
}

// --- Fill and Stroke helpers ---

func (w *PPTXWriter) writeFillXML(f *Fill) string {
	if f == nil {
		return "          <a:noFill/>\n"
	}
	if f.Opacity < 1 {
		return fmt.Sprintf(`          <a:solidFill>
            <a:srgbClr val="%s">
              <a:alpha val="%d"/>
            </a:srgbClr>
          </a:solidFill>
`, colorRGB(f.Color), fixedAlpha(f.Opacity))
	}
	return fmt.Sprintf("          <a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill>\n", colorRGB(f.Color))
}

func (w *PPTXWriter) writeStrokeXML(s *Stroke) string {
	if s == nil || s.Thickness <= 0 {
		return "          <a:ln><a:noFill/></a:ln>\n"
	}
	if s.Opacity < 1 {
		return fmt.Sprintf("          <a:ln w=\"%d\"><a:solidFill><a:srgbClr val=\"%s\"><a:alpha val=\"%d\"/></a:srgbClr></a:solidFill></a:ln>\n",
			Point(s.Thickness), colorRGB(s.Color), fixedAlpha(s.Opacity))
	}
	return fmt.Sprintf("          <a:ln w=\"%d\"><a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill></a:ln>\n",
		Point(s.Thickness), colorRGB(s.Color))
}

// --- Media ---

func (w *PPTXWriter) writeMedia(zw *zip.Writer) error {
	imgIdx := 1
	for _, slide := range w.presentation.slides {
		for _, ds := range collectDrawingShapes(slide.shapes) {
			if ds.data != nil {
				ext := w.getImageExtension(ds)
				fw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.%s", imgIdx, ext))
				if err != nil {
					return err
				}
				if _, err := fw.Write(ds.data); err != nil {
					return err
				}
				imgIdx++
			} else if ds.path != "" {
				info, err := os.Stat(ds.path)
				if err != nil {
					return fmt.Errorf("failed to stat image %s: %w", ds.path, err)
				}
				if info.Size() > maxImageFileSize {
					return fmt.Errorf("image file %s too large: %d bytes (max %d)", ds.path, info.Size(), maxImageFileSize)
				}
				data, err := os.ReadFile(ds.path)
				if err != nil {
					return fmt.Errorf("failed to read image %s: %w", ds.path, err)
				}
				ext := w.getImageExtension(ds)
				fw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.%s", imgIdx, ext))
				if err != nil {
					return err
				}
				if _, err := fw.Write(data); err != nil {
					return err
				}
				imgIdx++
			}
		}
	}
	return nil
}

// --- Notes Slide ---

func (w *PPTXWriter) writeNotesSlide(zw *zip.Writer, slide *Slide, slideNum int) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="2" name="Notes Placeholder"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            <p:ph type="body" idx="1"/>
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr/>
        <p:txBody>
          <a:bodyPr/>
          <a:lstStyle/>
          <a:p>
            <a:r>
              <a:rPr lang="en-US" dirty="0"/>
              <a:t>%s</a:t>
            </a:r>
          </a:p>
        </p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:notes>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, xmlEscape(slide.notes))

	if err := writeRawXMLToZip(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", slideNum), content); err != nil {
		return err
	}

	// Notes slide rels
	rels := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="../slides/slide%d.xml"/>
</Relationships>`, nsRelationships, relTypeSlide, slideNum)
	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", slideNum), rels)
}

// Package godeck synthesizes presentation documents (.pptx, the Open XML
// package format) from a declarative slide model: shapes, rich text,
// pictures with raster post-processing, and connectors.
//
// A caller builds a PresentationDocument and hands it to a Synthesizer,
// which resolves remote picture assets, runs the raster pipeline, and
// writes a binary package a standard presentation viewer can open.
package godeck

import (
	"errors"
	"time"
)

// Version is the library version reported in the document's application
// properties.
const Version = "0.1.0"

// Canvas dimensions in EMU: every document renders on a fixed 1280x720
// point (16:9) canvas.
const (
	CanvasWidthEMU  = 1280 * emuPerPoint
	CanvasHeightEMU = 720 * emuPerPoint
)

// Presentation represents an in-memory output presentation.
type Presentation struct {
	properties  *DocumentProperties
	slides      []*Slide
	slideWidth  int64 // in EMU
	slideHeight int64 // in EMU
}

// New creates a new empty Presentation on the fixed 16:9 canvas.
func New() *Presentation {
	return &Presentation{
		properties:  NewDocumentProperties(),
		slides:      make([]*Slide, 0),
		slideWidth:  CanvasWidthEMU,
		slideHeight: CanvasHeightEMU,
	}
}

// GetDocumentProperties returns the document properties.
func (p *Presentation) GetDocumentProperties() *DocumentProperties {
	return p.properties
}

// SetDocumentProperties sets the document properties.
func (p *Presentation) SetDocumentProperties(props *DocumentProperties) {
	p.properties = props
}

// GetSlideSize returns the slide dimensions in EMU.
func (p *Presentation) GetSlideSize() (width, height int64) {
	return p.slideWidth, p.slideHeight
}

// CreateSlide creates a new slide and adds it to the presentation.
func (p *Presentation) CreateSlide() *Slide {
	slide := newSlide()
	p.slides = append(p.slides, slide)
	return slide
}

// AddSlide adds an existing slide to the presentation.
func (p *Presentation) AddSlide(slide *Slide) *Slide {
	p.slides = append(p.slides, slide)
	return slide
}

// GetSlide returns a slide by index.
func (p *Presentation) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, errors.New("slide index out of range")
	}
	return p.slides[index], nil
}

// GetAllSlides returns all slides.
func (p *Presentation) GetAllSlides() []*Slide {
	return p.slides
}

// GetSlideCount returns the number of slides.
func (p *Presentation) GetSlideCount() int {
	return len(p.slides)
}

// DocumentProperties holds the standard document properties.
type DocumentProperties struct {
	Creator        string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
	Title          string
	Description    string
	Subject        string
	Keywords       string
	Category       string
	Company        string
	Revision       string
}

// NewDocumentProperties creates new document properties with defaults.
func NewDocumentProperties() *DocumentProperties {
	now := time.Now()
	return &DocumentProperties{
		Creator:        "GoDeck",
		LastModifiedBy: "GoDeck",
		Created:        now,
		Modified:       now,
	}
}

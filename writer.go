package godeck

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PPTXWriter writes presentations as Open XML packages.
type PPTXWriter struct {
	presentation *Presentation
}

// NewPPTXWriter creates a writer for the given presentation.
func NewPPTXWriter(p *Presentation) *PPTXWriter {
	return &PPTXWriter{presentation: p}
}

// Save writes the presentation to a file. On a write failure the partial
// file is removed so a successful return never references partial output.
func (w *PPTXWriter) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := w.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the presentation package to a writer.
func (w *PPTXWriter) WriteTo(writer io.Writer) error {
	if w.presentation == nil {
		return fmt.Errorf("presentation is nil")
	}

	zw := zip.NewWriter(writer)

	// Write [Content_Types].xml
	if err := w.writeContentTypes(zw); err != nil {
		return err
	}

	// Write _rels/.rels
	if err := w.writeRootRels(zw); err != nil {
		return err
	}

	// Write docProps/app.xml
	if err := w.writeAppProperties(zw); err != nil {
		return err
	}

	// Write docProps/core.xml
	if err := w.writeCoreProperties(zw); err != nil {
		return err
	}

	// Write ppt/presentation.xml
	if err := w.writePresentation(zw); err != nil {
		return err
	}

	// Write ppt/_rels/presentation.xml.rels
	if err := w.writePresentationRels(zw); err != nil {
		return err
	}

	// Write ppt/presProps.xml
	if err := w.writePresProps(zw); err != nil {
		return err
	}

	// Write ppt/viewProps.xml
	if err := w.writeViewProps(zw); err != nil {
		return err
	}

	// Write ppt/tableStyles.xml
	if err := w.writeTableStyles(zw); err != nil {
		return err
	}

	// Write slide master and layout
	if err := w.writeSlideMaster(zw); err != nil {
		return err
	}

	if err := w.writeSlideLayout(zw); err != nil {
		return err
	}

	// Write theme
	if err := w.writeTheme(zw); err != nil {
		return err
	}

	// Write slides
	for i, slide := range w.presentation.slides {
		if err := w.writeSlide(zw, slide, i+1); err != nil {
			return err
		}
		if err := w.writeSlideRels(zw, slide, i+1); err != nil {
			return err
		}
	}

	// Write images
	if err := w.writeMedia(zw); err != nil {
		return err
	}

	// Write notes slides
	for i, slide := range w.presentation.slides {
		if slide.notes != "" {
			if err := w.writeNotesSlide(zw, slide, i+1); err != nil {
				return err
			}
		}
	}

	return zw.Close()
}

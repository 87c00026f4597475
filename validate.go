package godeck

import (
	"fmt"
	"strings"
)

// ValidateDocument checks a presentation document for structural issues and
// returns an error describing all problems found, or nil if the document is
// valid. Shape-level problems discovered during synthesis (unreadable images,
// zero-thickness connectors) are handled leniently there and are not
// validation errors.
func ValidateDocument(doc *PresentationDocument) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}

	var errs []string

	for i, shape := range doc.Shapes {
		if err := validateShape(shape); err != nil {
			errs = append(errs, fmt.Sprintf("global shape %d: %v", i, err))
		}
	}
	for i, slide := range doc.Slides {
		if slide == nil {
			errs = append(errs, fmt.Sprintf("slide %d is nil", i))
			continue
		}
		for j, shape := range slide.Shapes {
			if err := validateShape(shape); err != nil {
				errs = append(errs, fmt.Sprintf("slide %d shape %d: %v", i, j, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("document validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateShape(shape ShapeModel) error {
	if shape == nil {
		return fmt.Errorf("shape is nil")
	}
	switch s := shape.(type) {
	case *TextBoxModel:
		return validatePosition(s.Position)
	case *AutoShapeModel:
		if err := validatePosition(s.Position); err != nil {
			return err
		}
		if s.BorderRadius < 0 {
			return fmt.Errorf("border radius must not be negative, got %d", s.BorderRadius)
		}
		return nil
	case *PictureModel:
		if err := validatePosition(s.Position); err != nil {
			return err
		}
		if s.Source.Path == "" {
			return fmt.Errorf("picture has no source path")
		}
		if n := len(s.BorderRadius); n != 0 && n != 4 {
			return fmt.Errorf("picture border radius must have 0 or 4 values, got %d", n)
		}
		return nil
	case *ConnectorModel:
		return validatePosition(s.Position)
	default:
		return fmt.Errorf("unknown shape type %T", shape)
	}
}

func validatePosition(p Position) error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("shape extent must not be negative, got %gx%g", p.Width, p.Height)
	}
	return nil
}

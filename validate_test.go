package godeck

import (
	"strings"
	"testing"
)

func TestValidateDocumentNil(t *testing.T) {
	if err := ValidateDocument(nil); err == nil {
		t.Error("nil document should fail validation")
	}
}

func TestValidateDocumentEmpty(t *testing.T) {
	if err := ValidateDocument(&PresentationDocument{}); err != nil {
		t.Errorf("empty document should be valid: %v", err)
	}
}

func TestValidateDocumentNegativeExtent(t *testing.T) {
	doc := &PresentationDocument{
		Slides: []*SlideModel{
			{Shapes: []ShapeModel{NewTextBox(NewPosition(0, 0, -10, 20))}},
		},
	}
	err := ValidateDocument(doc)
	if err == nil {
		t.Fatal("negative width should fail validation")
	}
	if !strings.Contains(err.Error(), "slide 0 shape 0") {
		t.Errorf("error should locate the shape: %v", err)
	}
}

func TestValidateDocumentPictureSourceRequired(t *testing.T) {
	doc := &PresentationDocument{
		Slides: []*SlideModel{
			{Shapes: []ShapeModel{NewPicture(NewPosition(0, 0, 10, 10), PictureSource{})}},
		},
	}
	if err := ValidateDocument(doc); err == nil {
		t.Error("picture without a source path should fail validation")
	}
}

func TestValidateDocumentBorderRadiusArity(t *testing.T) {
	pic := NewPicture(NewPosition(0, 0, 10, 10), PictureSource{Path: "x.png"})
	pic.BorderRadius = []int{1, 2, 3}
	doc := &PresentationDocument{Slides: []*SlideModel{{Shapes: []ShapeModel{pic}}}}
	if err := ValidateDocument(doc); err == nil {
		t.Error("3-element border radius should fail validation")
	}

	pic.BorderRadius = []int{1, 2, 3, 4}
	if err := ValidateDocument(doc); err != nil {
		t.Errorf("4-element border radius should be valid: %v", err)
	}
	pic.BorderRadius = nil
	if err := ValidateDocument(doc); err != nil {
		t.Errorf("absent border radius should be valid: %v", err)
	}
}

func TestValidateDocumentCollectsAllProblems(t *testing.T) {
	doc := &PresentationDocument{
		Shapes: []ShapeModel{NewTextBox(NewPosition(0, 0, -1, -1))},
		Slides: []*SlideModel{
			nil,
			{Shapes: []ShapeModel{nil}},
		},
	}
	err := ValidateDocument(doc)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{"global shape 0", "slide 0 is nil", "slide 1 shape 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q: %v", want, msg)
		}
	}
}

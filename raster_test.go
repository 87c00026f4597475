package godeck

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// gradientImage builds an opaque w x h bitmap with position-dependent RGB
// values so transforms that move pixels around are detectable.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestCropToCoverCenterFocus(t *testing.T) {
	// 2:1 source, white band in the middle third, black elsewhere.
	src := image.NewNRGBA(image.Rect(0, 0, 300, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 300; x++ {
			c := color.NRGBA{A: 255}
			if x >= 100 && x < 200 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}

	out := CropToCover(src, 100, 100, 50, 50)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("output = %dx%d, want 100x100", out.Bounds().Dx(), out.Bounds().Dy())
	}
	// The source's horizontal center must survive the crop.
	center := out.NRGBAAt(50, 50)
	if center.R < 200 || center.G < 200 || center.B < 200 {
		t.Errorf("center pixel = %+v, want the white band", center)
	}
}

func TestFitImageCoverMatchesCropToCover(t *testing.T) {
	src := gradientImage(200, 100)
	cover := FitImage(src, 100, 100, ObjectFit{Mode: FitCover})
	crop := CropToCover(src, 100, 100, 50, 50)
	if !bytes.Equal(cover.Pix, crop.Pix) {
		t.Error("cover fit and crop-to-cover disagree at the default focus")
	}
}

func TestFitImageContainLetterboxes(t *testing.T) {
	src := gradientImage(200, 100) // 2:1 into a square box
	out := FitImage(src, 100, 100, ObjectFit{Mode: FitContain})
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("output = %dx%d, want 100x100", out.Bounds().Dx(), out.Bounds().Dy())
	}
	// Fitted content occupies rows 25-74; the bands above and below are
	// fully transparent.
	for _, y := range []int{0, 10, 24, 75, 90, 99} {
		if a := out.NRGBAAt(50, y).A; a != 0 {
			t.Errorf("letterbox row %d alpha = %d, want 0", y, a)
		}
	}
	if a := out.NRGBAAt(50, 50).A; a != 255 {
		t.Errorf("content row alpha = %d, want 255", a)
	}
}

func TestFitImageFillStretches(t *testing.T) {
	src := gradientImage(200, 100)
	out := FitImage(src, 80, 120, ObjectFit{Mode: FitFill})
	if out.Bounds().Dx() != 80 || out.Bounds().Dy() != 120 {
		t.Fatalf("output = %dx%d, want 80x120", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if a := out.NRGBAAt(0, 119).A; a != 255 {
		t.Errorf("stretched pixel alpha = %d, want 255", a)
	}
}

func TestRoundCornersZeroRadiiNoOp(t *testing.T) {
	src := gradientImage(60, 40)
	out := RoundCorners(src, [4]int{})
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Error("zero radii should leave the bitmap unchanged")
	}
}

func TestRoundCornersClampAndMask(t *testing.T) {
	src := gradientImage(100, 80)
	// Mark one interior pixel transparent up front.
	src.SetNRGBA(50, 40, color.NRGBA{})

	out := RoundCorners(src, [4]int{500, 500, 500, 500}) // clamps to 40

	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("top-left corner alpha = %d, want 0", a)
	}
	if a := out.NRGBAAt(99, 79).A; a != 0 {
		t.Errorf("bottom-right corner alpha = %d, want 0", a)
	}
	// Midpoints of the edges survive a clamped radius.
	if a := out.NRGBAAt(50, 0).A; a != 255 {
		t.Errorf("top edge midpoint alpha = %d, want 255", a)
	}
	// Pre-existing transparency is preserved, not overwritten.
	if a := out.NRGBAAt(50, 40).A; a != 0 {
		t.Errorf("pre-transparent pixel alpha = %d, want 0", a)
	}
	// Input untouched.
	if a := src.NRGBAAt(0, 0).A; a != 255 {
		t.Error("input bitmap was mutated")
	}
}

func TestMaskCircle(t *testing.T) {
	src := gradientImage(100, 60)
	out := MaskCircle(src)
	if px := out.NRGBAAt(0, 0); px != (color.NRGBA{}) {
		t.Errorf("corner pixel = %+v, want fully zeroed", px)
	}
	if a := out.NRGBAAt(50, 30).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
}

func TestInvertChannelsInvolution(t *testing.T) {
	src := gradientImage(30, 30)
	src.SetNRGBA(10, 10, color.NRGBA{R: 9, G: 9, B: 9, A: 0})

	twice := InvertChannels(InvertChannels(src))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			got, want := twice.NRGBAAt(x, y), src.NRGBAAt(x, y)
			if want.A == 0 {
				// Transparent pixels are zeroed, not round-tripped.
				if got != (color.NRGBA{}) {
					t.Fatalf("transparent pixel at (%d,%d) = %+v, want zeroed", x, y, got)
				}
				continue
			}
			if got != want {
				t.Fatalf("pixel at (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestScaleAlphaRestore(t *testing.T) {
	src := gradientImage(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			px := src.NRGBAAt(x, y)
			px.A = uint8(40 + x*10)
			src.SetNRGBA(x, y, px)
		}
	}

	restored := ScaleAlpha(ScaleAlpha(src, 0.5), 2.0)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			got, want := restored.NRGBAAt(x, y), src.NRGBAAt(x, y)
			diff := int(got.A) - int(want.A)
			if diff < -2 || diff > 2 {
				t.Fatalf("alpha at (%d,%d) = %d, want %d within rounding", x, y, got.A, want.A)
			}
			if got.R != want.R || got.G != want.G || got.B != want.B {
				t.Fatalf("RGB changed at (%d,%d)", x, y)
			}
		}
	}
}

func TestScaleAlphaNegativeFactor(t *testing.T) {
	src := gradientImage(4, 4)
	out := ScaleAlpha(src, -1)
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 {
			t.Fatalf("alpha = %d, want 0 for negative factor", out.Pix[i])
		}
	}
}

func TestToNRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 25))
	out := ToNRGBA(src)
	if out.Bounds().Min != (image.Point{}) || out.Bounds().Dx() != 10 || out.Bounds().Dy() != 20 {
		t.Errorf("bounds = %v, want origin-based 10x20", out.Bounds())
	}
}

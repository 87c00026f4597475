package godeck

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Raster transforms for picture shapes. Every function takes a decoded
// non-premultiplied RGBA bitmap and returns a new one; inputs are never
// mutated. Scaling uses the Catmull-Rom kernel.

// ToNRGBA converts any decoded image to a non-premultiplied RGBA bitmap
// with origin-based bounds.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	return dst
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func resizeNRGBA(src *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// cropNRGBA copies the window r out of src into a new origin-based bitmap.
func cropNRGBA(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Copy(dst, image.Point{}, src, r, xdraw.Src, nil)
	return dst
}

func clampFocus(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CropToCover scales the image uniformly until it covers a width x height
// box, then crops that window out of it. The focus percentages (0-100)
// bias the crop offset between 0 and the overflow amount; (50, 50) keeps
// the center.
func CropToCover(src *image.NRGBA, width, height int, focusX, focusY float64) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return cloneNRGBA(src)
	}
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	if iw <= 0 || ih <= 0 {
		return cloneNRGBA(src)
	}

	imgAspect := float64(iw) / float64(ih)
	boxAspect := float64(width) / float64(height)

	var newW, newH int
	if imgAspect > boxAspect {
		newH = height
		newW = int(float64(newH) * imgAspect)
	} else {
		newW = width
		newH = int(float64(newW) / imgAspect)
	}
	resized := resizeNRGBA(src, newW, newH)

	focusX = clampFocus(focusX)
	focusY = clampFocus(focusY)
	offX := int(float64(newW-width) * (focusX / 100.0))
	offY := int(float64(newH-height) * (focusY / 100.0))

	return cropNRGBA(resized, image.Rect(offX, offY, offX+width, offY+height))
}

// FitImage fits the image into a width x height box according to the
// object-fit mode: contain letterboxes onto a transparent canvas, cover
// scales and crops, fill stretches ignoring aspect ratio. The optional
// focal point biases where contain pastes and where cover crops.
func FitImage(src *image.NRGBA, width, height int, fit ObjectFit) *image.NRGBA {
	if fit.Mode == "" || width <= 0 || height <= 0 {
		return cloneNRGBA(src)
	}
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	if iw <= 0 || ih <= 0 {
		return cloneNRGBA(src)
	}

	focusX, focusY := 50.0, 50.0
	if fit.Focus != nil {
		focusX, focusY = fit.Focus[0], fit.Focus[1]
	}

	imgAspect := float64(iw) / float64(ih)
	boxAspect := float64(width) / float64(height)

	switch fit.Mode {
	case FitContain:
		var newW, newH int
		if imgAspect > boxAspect {
			newW = width
			newH = int(float64(width) / imgAspect)
		} else {
			newH = height
			newW = int(float64(height) * imgAspect)
		}
		resized := resizeNRGBA(src, newW, newH)

		pasteX := int(float64(width-newW) * (focusX / 100.0))
		pasteY := int(float64(height-newH) * (focusY / 100.0))

		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		xdraw.Copy(dst, image.Point{X: pasteX, Y: pasteY}, resized, resized.Bounds(), xdraw.Src, nil)
		return dst

	case FitCover:
		return CropToCover(src, width, height, focusX, focusY)

	case FitFill:
		return resizeNRGBA(src, width, height)
	}
	return cloneNRGBA(src)
}

// clampRadii floors each radius at 0 and caps it at min(w, h)/2 so
// opposing corners cannot overlap.
func clampRadii(radii [4]int, w, h int) [4]int {
	maxR := w / 2
	if h/2 < maxR {
		maxR = h / 2
	}
	for i, r := range radii {
		if r < 0 {
			r = 0
		}
		if r > maxR {
			r = maxR
		}
		radii[i] = r
	}
	return radii
}

// inCorner reports whether local corner coordinates (x, y) fall outside
// the quarter-circle stamp of the given radius, i.e. the pixel must be
// masked out. The circle is centered at (r-0.5, r-0.5) within an r x r
// corner square whose (0, 0) is the outermost pixel of the corner.
func outsideCornerCircle(x, y, r int) bool {
	c := float64(r) - 0.5
	dx := float64(x) - c
	dy := float64(y) - c
	return dx*dx+dy*dy > c*c
}

// RoundCorners masks the image's corners with quarter-circle stamps of
// the given radii, ordered top-left, top-right, bottom-right, bottom-left.
// The corner mask is combined with the existing alpha channel so
// pre-existing transparency survives; all-zero radii is a no-op.
func RoundCorners(src *image.NRGBA, radii [4]int) *image.NRGBA {
	dst := cloneNRGBA(src)
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	radii = clampRadii(radii, w, h)

	mask := func(x, y int) {
		dst.Pix[y*dst.Stride+x*4+3] = 0
	}

	// top-left: circle coordinates mirror the corner square directly.
	if r := radii[0]; r > 0 {
		for y := 0; y < r; y++ {
			for x := 0; x < r; x++ {
				if outsideCornerCircle(x, y, r) {
					mask(x, y)
				}
			}
		}
	}
	// top-right
	if r := radii[1]; r > 0 {
		for y := 0; y < r; y++ {
			for x := w - r; x < w; x++ {
				if outsideCornerCircle(x-(w-r)+r, y, r) {
					mask(x, y)
				}
			}
		}
	}
	// bottom-right
	if r := radii[2]; r > 0 {
		for y := h - r; y < h; y++ {
			for x := w - r; x < w; x++ {
				if outsideCornerCircle(x-(w-r)+r, y-(h-r)+r, r) {
					mask(x, y)
				}
			}
		}
	}
	// bottom-left
	if r := radii[3]; r > 0 {
		for y := h - r; y < h; y++ {
			for x := 0; x < r; x++ {
				if outsideCornerCircle(x, y-(h-r)+r, r) {
					mask(x, y)
				}
			}
		}
	}
	return dst
}

// MaskCircle crops the image to a centered circle whose diameter is the
// shorter of width/height. The canvas size is unchanged; pixels outside
// the circle are fully zeroed.
func MaskCircle(src *image.NRGBA) *image.NRGBA {
	dst := cloneNRGBA(src)
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	cx, cy := w/2, h/2
	r := w
	if h < r {
		r = h
	}
	r /= 2

	for y := 0; y < h; y++ {
		row := y * dst.Stride
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r*r {
				off := row + x*4
				dst.Pix[off] = 0
				dst.Pix[off+1] = 0
				dst.Pix[off+2] = 0
				dst.Pix[off+3] = 0
			}
		}
	}
	return dst
}

// InvertChannels replaces R, G, B with 255-value on every pixel with
// non-zero alpha; fully transparent pixels are zeroed rather than
// inverted. Applying it twice restores the original RGB values on all
// visible pixels.
func InvertChannels(src *image.NRGBA) *image.NRGBA {
	dst := cloneNRGBA(src)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] == 0 {
			dst.Pix[i] = 0
			dst.Pix[i+1] = 0
			dst.Pix[i+2] = 0
			continue
		}
		dst.Pix[i] = 255 - dst.Pix[i]
		dst.Pix[i+1] = 255 - dst.Pix[i+1]
		dst.Pix[i+2] = 255 - dst.Pix[i+2]
	}
	return dst
}

// ScaleAlpha multiplies the alpha channel by factor per pixel, leaving
// RGB untouched. Negative factors clamp to 0 and results cap at 255, so
// scaling by 0.5 and then by 2.0 approximately restores the original
// alpha (within integer rounding).
func ScaleAlpha(src *image.NRGBA, factor float64) *image.NRGBA {
	if factor < 0 {
		factor = 0
	}
	dst := cloneNRGBA(src)
	for i := 3; i < len(dst.Pix); i += 4 {
		a := float64(dst.Pix[i]) * factor
		if a > 255 {
			a = 255
		}
		dst.Pix[i] = uint8(a)
	}
	return dst
}

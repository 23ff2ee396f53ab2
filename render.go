package texclip

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Post-processing policy constants.
const (
	// minPaddingPx is the minimum padding added around the content
	// bounding box; the effective padding is max(minPaddingPx, dpi/20).
	minPaddingPx = 5

	// Maximum cropped dimensions before downscaling kicks in.
	maxRenderWidth  = 1800
	maxRenderHeight = 600

	// emptyPixelThreshold classifies a bitmap as empty: fewer
	// non-transparent pixels than this is treated as a render failure
	// regardless of declared dimensions.
	emptyPixelThreshold = 100
)

// renderer applies the shared post-processing policy around whichever
// typesetting engine is configured: tight-crop to visible content, pad,
// and downscale oversized results. Both engines go through the same
// steps so their outputs are interchangeable downstream.
type renderer struct {
	engine TypesettingEngine
}

// Render typesets one equation and returns the cropped, scaled bitmap.
// The equation is wrapped in inline-math delimiters before reaching the
// engine. Failures are reported as ErrEngineFailure, ErrRenderNoContent,
// or ErrRenderEmpty; all three are per-equation and recoverable.
func (r *renderer) Render(ctx context.Context, equation string, style Style) (*image.RGBA, error) {
	src, err := r.engine.Typeset(ctx, "$"+equation+"$", TypesetOptions{
		Color:      style.Color,
		FontSizePt: style.scaledFontSize(),
		DPI:        style.DPI,
	})
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: engine returned nil image", ErrEngineFailure)
	}

	rgba := toRGBA(src)

	box, ok := tightBounds(rgba)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRenderNoContent, equation)
	}

	pad := style.DPI / 20
	if pad < minPaddingPx {
		pad = minPaddingPx
	}
	box = box.Inset(-pad).Intersect(rgba.Bounds())

	out := crop(rgba, box)
	out = downscale(out)

	if countVisible(out) < emptyPixelThreshold {
		return nil, fmt.Errorf("%w: %q", ErrRenderEmpty, equation)
	}
	return out, nil
}

// toRGBA converts any image to RGBA without copying when possible.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return rgba
}

// tightBounds returns the bounding box of pixels with nonzero alpha.
// ok is false when the image is fully transparent.
func tightBounds(img *image.RGBA) (box image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if minX > maxX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// countVisible counts pixels with nonzero alpha.
func countVisible(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] != 0 {
				n++
			}
		}
	}
	return n
}

// crop copies the box region into a zero-origin RGBA.
func crop(img *image.RGBA, box image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Draw(dst, dst.Bounds(), img, box.Min, draw.Src)
	return dst
}

// downscale shrinks an oversized bitmap preserving aspect ratio, the
// width limit taking priority when both dimensions exceed their caps.
// Uses Catmull-Rom resampling for quality.
func downscale(img *image.RGBA) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= maxRenderWidth && h <= maxRenderHeight {
		return img
	}

	aspect := 1.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}

	var newW, newH int
	if w > maxRenderWidth {
		newW = maxRenderWidth
		newH = int(float64(newW) / aspect)
	} else {
		newH = maxRenderHeight
		newW = int(aspect * float64(newH))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

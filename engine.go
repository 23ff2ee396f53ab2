package texclip

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// TypesetOptions carries style parameters to a typesetting engine.
// FontSizePt is already DPI-scaled by the renderer.
type TypesetOptions struct {
	Color      string
	FontSizePt float64
	DPI        int
}

// TypesettingEngine turns a math string into a raster image. The math
// string arrives wrapped in inline-math delimiters ($...$). Engines
// must render on a transparent background; cropping, padding, and
// scaling are the renderer's job, not the engine's.
type TypesettingEngine interface {
	Typeset(ctx context.Context, mathString string, opts TypesetOptions) (image.Image, error)
}

// namedColors maps the color names offered by the UI layer to RGBA.
var namedColors = map[string]color.RGBA{
	"white": {R: 255, G: 255, B: 255, A: 255},
	"black": {A: 255},
	"red":   {R: 255, A: 255},
	"blue":  {B: 255, A: 255},
	"green": {G: 128, A: 255},
}

// parseColor resolves a color name or "#rrggbb" hex string.
func parseColor(s string) (color.RGBA, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 255,
			}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

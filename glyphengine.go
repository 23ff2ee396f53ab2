package texclip

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphEngine is the in-process typesetting fallback. It draws the math
// string with an embedded font instead of running a LaTeX toolchain, so
// it works everywhere but does not interpret LaTeX commands. Visual
// fidelity is out of scope; the engine only satisfies the raster
// contract (transparent background, requested color, DPI-scaled size).
type GlyphEngine struct {
	once sync.Once
	fnt  *opentype.Font
	err  error
}

// NewGlyphEngine creates a GlyphEngine. The embedded font is parsed
// lazily on first use.
func NewGlyphEngine() *GlyphEngine {
	return &GlyphEngine{}
}

// load parses the embedded font once.
func (e *GlyphEngine) load() (*opentype.Font, error) {
	e.once.Do(func() {
		e.fnt, e.err = opentype.Parse(goitalic.TTF)
	})
	return e.fnt, e.err
}

// Typeset draws mathString onto a transparent RGBA image.
func (e *GlyphEngine) Typeset(ctx context.Context, mathString string, opts TypesetOptions) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fnt, err := e.load()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing embedded font: %v", ErrEngineFailure, err)
	}

	col, err := parseColor(opts.Color)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    opts.FontSizePt,
		DPI:     float64(opts.DPI),
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating font face: %v", ErrEngineFailure, err)
	}
	defer face.Close()

	// The inline-math delimiters carry no glyphs in this engine.
	text := strings.Trim(mathString, "$")

	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	// Breathing room around the glyphs; the renderer crops it away.
	margin := opts.DPI / 10
	if margin < 4 {
		margin = 4
	}

	img := image.NewRGBA(image.Rect(0, 0, width+2*margin, height+2*margin))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(margin, margin+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	return img, nil
}

package texclip

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// stubEngine returns a fixed image and records what it was asked for.
type stubEngine struct {
	img     image.Image
	err     error
	gotMath string
	gotOpts TypesetOptions
}

func (s *stubEngine) Typeset(_ context.Context, mathString string, opts TypesetOptions) (image.Image, error) {
	s.gotMath = mathString
	s.gotOpts = opts
	return s.img, s.err
}

// opaqueBlock builds a w x h transparent RGBA with an opaque white
// rectangle drawn at block.
func opaqueBlock(w, h int, block image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, block, image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestRender_WrapsAndScalesFont(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{img: opaqueBlock(100, 100, image.Rect(40, 40, 60, 60))}
	r := &renderer{engine: eng}

	_, err := r.Render(context.Background(), "x^2", Style{Color: "white", FontSize: 12, DPI: 300})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if eng.gotMath != "$x^2$" {
		t.Errorf("engine math = %q, want %q", eng.gotMath, "$x^2$")
	}
	// 12pt at 300 dpi against the 100 dpi baseline.
	if eng.gotOpts.FontSizePt != 36 {
		t.Errorf("engine font size = %v, want 36", eng.gotOpts.FontSizePt)
	}
	if eng.gotOpts.DPI != 300 {
		t.Errorf("engine dpi = %d, want 300", eng.gotOpts.DPI)
	}
	if eng.gotOpts.Color != "white" {
		t.Errorf("engine color = %q, want white", eng.gotOpts.Color)
	}
}

func TestRender_CropAndPad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		img   *image.RGBA
		dpi   int
		wantW int
		wantH int
	}{
		{
			// 20x20 content centered in 100x100, dpi 100 gives pad 5.
			name:  "centered content padded",
			img:   opaqueBlock(100, 100, image.Rect(40, 40, 60, 60)),
			dpi:   100,
			wantW: 30,
			wantH: 30,
		},
		{
			// Padding clips at the bitmap edge instead of going negative.
			name:  "content at origin clipped",
			img:   opaqueBlock(50, 50, image.Rect(0, 0, 20, 20)),
			dpi:   100,
			wantW: 25,
			wantH: 25,
		},
		{
			// dpi 300 gives pad 15.
			name:  "high dpi widens padding",
			img:   opaqueBlock(200, 200, image.Rect(90, 90, 110, 110)),
			dpi:   300,
			wantW: 50,
			wantH: 50,
		},
		{
			// dpi 60 would give pad 3; the floor of 5 applies.
			name:  "padding floor",
			img:   opaqueBlock(100, 100, image.Rect(40, 40, 60, 60)),
			dpi:   60,
			wantW: 30,
			wantH: 30,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &renderer{engine: &stubEngine{img: tt.img}}
			got, err := r.Render(context.Background(), "x", Style{Color: "white", FontSize: 12, DPI: tt.dpi})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if w, h := got.Bounds().Dx(), got.Bounds().Dy(); w != tt.wantW || h != tt.wantH {
				t.Errorf("Render() size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRender_Downscale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		img   *image.RGBA
		wantW int
		wantH int
	}{
		{
			// Width over the cap: scale to 1800 wide, aspect preserved.
			name:  "wide bitmap",
			img:   opaqueBlock(4000, 200, image.Rect(0, 0, 4000, 200)),
			wantW: 1800,
			wantH: 90,
		},
		{
			// Only height over the cap: scale to 600 tall.
			name:  "tall bitmap",
			img:   opaqueBlock(100, 1200, image.Rect(0, 0, 100, 1200)),
			wantW: 50,
			wantH: 600,
		},
		{
			// Both over: the width limit wins.
			name:  "both over width wins",
			img:   opaqueBlock(3600, 1200, image.Rect(0, 0, 3600, 1200)),
			wantW: 1800,
			wantH: 600,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := downscale(tt.img)
			if w, h := got.Bounds().Dx(), got.Bounds().Dy(); w != tt.wantW || h != tt.wantH {
				t.Errorf("downscale() size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRender_Failures(t *testing.T) {
	t.Parallel()

	engineErr := errors.New("luatex exploded")

	tests := []struct {
		name    string
		engine  *stubEngine
		wantErr error
	}{
		{
			name:    "engine error propagated",
			engine:  &stubEngine{err: engineErr},
			wantErr: engineErr,
		},
		{
			name:    "nil image",
			engine:  &stubEngine{},
			wantErr: ErrEngineFailure,
		},
		{
			name:    "fully transparent",
			engine:  &stubEngine{img: image.NewRGBA(image.Rect(0, 0, 50, 50))},
			wantErr: ErrRenderNoContent,
		},
		{
			// 9x11 = 99 visible pixels, one short of the threshold.
			name:    "below visibility threshold",
			engine:  &stubEngine{img: opaqueBlock(100, 100, image.Rect(10, 10, 19, 21))},
			wantErr: ErrRenderEmpty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &renderer{engine: tt.engine}
			_, err := r.Render(context.Background(), "x", Style{Color: "white", FontSize: 12, DPI: 100})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRender_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	// Exactly 100 visible pixels passes.
	r := &renderer{engine: &stubEngine{img: opaqueBlock(100, 100, image.Rect(10, 10, 20, 20))}}
	if _, err := r.Render(context.Background(), "x", Style{Color: "white", FontSize: 12, DPI: 100}); err != nil {
		t.Errorf("Render() error = %v, want nil at exactly %d visible pixels", err, emptyPixelThreshold)
	}
}

func TestTightBounds(t *testing.T) {
	t.Parallel()

	img := opaqueBlock(100, 100, image.Rect(25, 30, 70, 55))
	box, ok := tightBounds(img)
	if !ok {
		t.Fatal("tightBounds() ok = false, want true")
	}
	if want := image.Rect(25, 30, 70, 55); box != want {
		t.Errorf("tightBounds() = %v, want %v", box, want)
	}

	if _, ok := tightBounds(image.NewRGBA(image.Rect(0, 0, 10, 10))); ok {
		t.Error("tightBounds() ok = true for transparent image, want false")
	}
}

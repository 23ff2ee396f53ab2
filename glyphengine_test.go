package texclip

import (
	"context"
	"errors"
	"image/color"
	"testing"
)

func TestGlyphEngine_Typeset(t *testing.T) {
	t.Parallel()

	eng := NewGlyphEngine()
	img, err := eng.Typeset(context.Background(), "$x^2 + y$", TypesetOptions{
		Color:      "red",
		FontSizePt: 24,
		DPI:        100,
	})
	if err != nil {
		t.Fatalf("Typeset() error = %v", err)
	}

	rgba := toRGBA(img)
	visible := countVisible(rgba)
	if visible == 0 {
		t.Fatal("Typeset() produced no visible pixels")
	}

	// Every visible pixel carries the requested color.
	b := rgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := rgba.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			if c.G != 0 || c.B != 0 || c.R == 0 {
				t.Fatalf("pixel (%d,%d) = %v, want a shade of red", x, y, c)
			}
		}
	}
}

func TestGlyphEngine_SizeTracksDPI(t *testing.T) {
	t.Parallel()

	eng := NewGlyphEngine()
	opts := TypesetOptions{Color: "white", FontSizePt: 12, DPI: 100}

	small, err := eng.Typeset(context.Background(), "$abc$", opts)
	if err != nil {
		t.Fatalf("Typeset() error = %v", err)
	}

	opts.DPI = 300
	large, err := eng.Typeset(context.Background(), "$abc$", opts)
	if err != nil {
		t.Fatalf("Typeset() error = %v", err)
	}

	if large.Bounds().Dx() <= small.Bounds().Dx() || large.Bounds().Dy() <= small.Bounds().Dy() {
		t.Errorf("300 dpi bitmap %v not larger than 100 dpi bitmap %v",
			large.Bounds(), small.Bounds())
	}
}

func TestGlyphEngine_StripsDelimiters(t *testing.T) {
	t.Parallel()

	eng := NewGlyphEngine()
	opts := TypesetOptions{Color: "white", FontSizePt: 12, DPI: 100}

	wrapped, err := eng.Typeset(context.Background(), "$xy$", opts)
	if err != nil {
		t.Fatalf("Typeset() error = %v", err)
	}
	bare, err := eng.Typeset(context.Background(), "xy", opts)
	if err != nil {
		t.Fatalf("Typeset() error = %v", err)
	}

	// Delimiters contribute no glyphs, so both spell the same text.
	if wrapped.Bounds() != bare.Bounds() {
		t.Errorf("wrapped bounds %v differ from bare bounds %v", wrapped.Bounds(), bare.Bounds())
	}
}

func TestGlyphEngine_InvalidColor(t *testing.T) {
	t.Parallel()

	eng := NewGlyphEngine()
	_, err := eng.Typeset(context.Background(), "$x$", TypesetOptions{
		Color:      "mauve",
		FontSizePt: 12,
		DPI:        100,
	})
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Typeset() error = %v, want ErrInvalidColor", err)
	}
}

func TestGlyphEngine_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewGlyphEngine()
	if _, err := eng.Typeset(ctx, "$x$", TypesetOptions{Color: "white", FontSizePt: 12, DPI: 100}); !errors.Is(err, context.Canceled) {
		t.Errorf("Typeset() error = %v, want context.Canceled", err)
	}
}

func TestNamedColors(t *testing.T) {
	t.Parallel()

	want := map[string]color.RGBA{
		"white": {R: 255, G: 255, B: 255, A: 255},
		"black": {A: 255},
	}
	for name, c := range want {
		got, err := parseColor(name)
		if err != nil {
			t.Errorf("parseColor(%q) error = %v", name, err)
			continue
		}
		if got != c {
			t.Errorf("parseColor(%q) = %v, want %v", name, got, c)
		}
	}
}

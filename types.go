package texclip

import (
	"fmt"
	"time"
)

// Font size bounds in points.
const (
	MinFontSize     = 10
	MaxFontSize     = 50
	DefaultFontSize = 12
)

// DPI bounds. Rendering is normalized to a 100-DPI baseline so the
// visual size of an equation stays constant across DPI settings.
const (
	MinDPI      = 100
	MaxDPI      = 600
	DefaultDPI  = 300
	BaselineDPI = 100
)

// DefaultColor is used when no text color is configured.
const DefaultColor = "white"

// Style holds the rendering parameters for one pipeline run.
type Style struct {
	Color    string // text color: named ("white", "black", ...) or "#rrggbb"
	FontSize int    // points, before DPI scaling
	DPI      int
}

// DefaultStyle returns the style used when none is configured.
func DefaultStyle() Style {
	return Style{
		Color:    DefaultColor,
		FontSize: DefaultFontSize,
		DPI:      DefaultDPI,
	}
}

// Validate checks that style values are within supported bounds.
func (s Style) Validate() error {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFontSize, s.FontSize, MinFontSize, MaxFontSize)
	}
	if s.DPI < MinDPI || s.DPI > MaxDPI {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidDPI, s.DPI, MinDPI, MaxDPI)
	}
	if _, err := parseColor(s.Color); err != nil {
		return err
	}
	return nil
}

// scaledFontSize returns the font size in points after DPI scaling.
func (s Style) scaledFontSize() float64 {
	return float64(s.FontSize) * float64(s.DPI) / BaselineDPI
}

// Input contains conversion parameters for a single pipeline run.
type Input struct {
	Text       string // text to scan for equations (required)
	Style      Style  // rendering style (zero value = DefaultStyle)
	OnlyImages bool   // suppress text runs, emit images only
}

// Result holds the output of one pipeline run.
type Result struct {
	FragmentHTML string  // composed rich fragment (style block + runs)
	Payload      Payload // CF_HTML wire payload
	Plain        string  // plain-text fallback (the original text)
	Rendered     int     // spans that produced a usable image
	Skipped      int     // spans dropped due to render or codec failure
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
}

// defaultTimeout bounds a single typesetting or export operation.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-operation timeout for subprocess typesetting
// and PDF export. Panics if d <= 0 (programmer error, similar to
// time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("texclip: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithEngine replaces the typesetting engine.
func WithEngine(e TypesettingEngine) Option {
	return func(s *Service) {
		s.engine = e
	}
}

// WithClipboard replaces the clipboard backend (e.g., by tests).
func WithClipboard(c Clipboard) Option {
	return func(s *Service) {
		s.clipboard = c
	}
}

// WithExporter replaces the PDF exporter (e.g., by tests).
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

// WithLogger sets a printf-style logger for per-equation diagnostics.
// The default logger discards everything.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *Service) {
		s.logf = logf
	}
}

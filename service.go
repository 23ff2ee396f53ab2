package texclip

import (
	"context"
	"fmt"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ TypesettingEngine = (*LatexEngine)(nil)
	_ TypesettingEngine = (*GlyphEngine)(nil)
	_ Clipboard         = (*systemClipboard)(nil)
	_ Exporter          = (*rodExporter)(nil)
	_ CommandRunner     = (*ExecRunner)(nil)
)

// Service orchestrates the equation-extraction pipeline: scan, render
// each span, encode, compose, and wrap in the CF_HTML envelope. A
// Service retains no state between runs; each Convert call is
// independent.
type Service struct {
	cfg       serviceConfig
	engine    TypesettingEngine
	clipboard Clipboard
	exporter  Exporter
	logf      func(format string, args ...any)
}

// New creates a Service with default configuration: the LaTeX
// subprocess engine, the system clipboard, and a lazy Chrome exporter.
// Use options to customize behavior (e.g., WithEngine, WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:  serviceConfig{timeout: defaultTimeout},
		logf: func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create collaborators if not injected (e.g., by tests)
	if s.engine == nil {
		s.engine = NewLatexEngine("", s.cfg.timeout)
	}
	if s.clipboard == nil {
		s.clipboard = NewSystemClipboard()
	}
	if s.exporter == nil {
		s.exporter = newRodExporter(s.cfg.timeout)
	}

	return s
}

// Convert runs the full pipeline on input.Text and returns the composed
// fragment and CF_HTML payload.
//
// Two benign terminal outcomes are reported as sentinel errors so
// callers can distinguish them from real failures: ErrNoEquations when
// the text contains no equation spans, and ErrNothingToCopy when every
// span failed to render. Per-equation failures are recovered locally
// (the span is skipped) and counted in Result.Skipped.
//
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (s *Service) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	style := input.Style
	if style == (Style{}) {
		style = DefaultStyle()
	}
	if err := s.validateInput(input.Text, style); err != nil {
		return nil, err
	}

	scan := Scan(input.Text)
	if len(scan.Matches) == 0 {
		return nil, ErrNoEquations
	}

	renders := make([]RenderedEquation, 0, len(scan.Matches))
	rendered, skipped := 0, 0
	for i, span := range scan.Matches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, renderErr := s.renderSpan(ctx, span, style)
		if renderErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logf("skipping equation %d %q: %v", i+1, span.Content, renderErr)
			skipped++
			renders = append(renders, RenderedEquation{Span: span})
			continue
		}

		rendered++
		renders = append(renders, RenderedEquation{Span: span, Data: data})
	}

	if rendered == 0 {
		return nil, fmt.Errorf("%w: %d equations failed", ErrNothingToCopy, skipped)
	}

	fragment := Compose(input.Text, renders, input.OnlyImages)
	fragmentHTML := buildStyleCSS(style) + fragment.HTML()

	return &Result{
		FragmentHTML: fragmentHTML,
		Payload:      EncodePayload(fragmentHTML),
		Plain:        input.Text,
		Rendered:     rendered,
		Skipped:      skipped,
	}, nil
}

// renderSpan renders one span and returns its validated base64 PNG.
func (s *Service) renderSpan(ctx context.Context, span EquationSpan, style Style) (string, error) {
	rend := renderer{engine: s.engine}
	img, err := rend.Render(ctx, span.Content, style)
	if err != nil {
		return "", err
	}

	data, err := EncodeBase64PNG(img)
	if err != nil {
		return "", err
	}
	if !ValidateBase64PNG(data) {
		return "", ErrCodecInvalid
	}
	return data, nil
}

// SetClipboard hands the converted result to the clipboard backend as
// two format variants of the same logical content.
func (s *Service) SetClipboard(res *Result) error {
	return s.clipboard.SetRichContent(res.Payload, res.Plain)
}

// CopyToClipboard converts input.Text and, on success, places the
// result on the clipboard. Nothing is written unless at least one
// equation rendered.
func (s *Service) CopyToClipboard(ctx context.Context, input Input) (*Result, error) {
	res, err := s.Convert(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.SetClipboard(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ExportPDF converts input.Text and renders the composed fragment to a
// PDF document.
func (s *Service) ExportPDF(ctx context.Context, input Input) ([]byte, error) {
	res, err := s.Convert(ctx, input)
	if err != nil {
		return nil, err
	}
	pdf, err := s.exporter.ExportPDF(ctx, res.FragmentHTML)
	if err != nil {
		return nil, fmt.Errorf("exporting PDF: %w", err)
	}
	return pdf, nil
}

// Close releases resources (headless Chrome browser, if launched).
func (s *Service) Close() error {
	if s.exporter != nil {
		return s.exporter.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input
// manually. CLI users have their values validated earlier at config
// load time; both paths converge here.
func (s *Service) validateInput(text string, style Style) error {
	if text == "" {
		return ErrEmptyText
	}
	return style.Validate()
}

package texclip

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval is the clipboard polling cadence used when none
// is configured.
const DefaultPollInterval = time.Second

// Monitor polls the clipboard backend and runs the pipeline once per
// detected text change. The pipeline itself stays stateless; the
// monitor only remembers the last processed text so that its own
// clipboard writes (whose plain-text variant equals the source text)
// do not retrigger a run.
type Monitor struct {
	svc      *Service
	input    Input
	interval time.Duration
	logf     func(format string, args ...any)
}

// NewMonitor creates a Monitor driving svc with the given poll
// interval. A non-positive interval selects DefaultPollInterval.
func NewMonitor(svc *Service, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		svc:      svc,
		interval: interval,
		logf:     svc.logf,
	}
}

// SetStyle configures the style and image-only flag applied to every
// triggered run. Must be called before Run.
func (m *Monitor) SetStyle(style Style, onlyImages bool) {
	m.input.Style = style
	m.input.OnlyImages = onlyImages
}

// Run polls until ctx is canceled. Per-run failures are logged and do
// not stop the loop; only context cancellation ends it.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var lastProcessed string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		text, err := m.svc.clipboard.GetText()
		if err != nil {
			m.logf("clipboard read failed: %v", err)
			continue
		}
		if text == "" || text == lastProcessed {
			continue
		}

		input := m.input
		input.Text = text

		res, err := m.svc.CopyToClipboard(ctx, input)
		switch {
		case err == nil:
			m.logf("copied %d equation images (%d skipped)", res.Rendered, res.Skipped)
		case errors.Is(err, ErrNoEquations):
			m.logf("no equations found in clipboard text")
		case errors.Is(err, ErrNothingToCopy):
			m.logf("no equation produced a usable image")
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			m.logf("pipeline run failed: %v", err)
		}

		// Mark processed even on failure so a bad text is not retried
		// every tick.
		lastProcessed = text
	}
}

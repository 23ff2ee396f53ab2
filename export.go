package texclip

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-texclip/internal/fileutil"
)

// Exporter renders a composed fragment to a portable document. It is a
// straight consumer of the composer's ordering contract and never
// re-derives spans from the source text.
type Exporter interface {
	ExportPDF(ctx context.Context, fragmentHTML string) ([]byte, error)
	Close() error
}

// exportShell wraps the fragment in a printable document. The dark
// page background keeps light-colored equation text visible.
const exportShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Equations</title>
<style>body { background: #1e1e1e; }</style>
</head>
<body>
%s
</body>
</html>`

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// rodExporter implements Exporter using headless Chrome via go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodExporter struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodExporter creates a rodExporter with the given timeout. The
// browser is launched lazily on first export.
func newRodExporter(timeout time.Duration) *rodExporter {
	return &rodExporter{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (e *rodExporter) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.browser = rod.New().ControlURL(u)
	if err := e.browser.Connect(); err != nil {
		e.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// ExportPDF renders the fragment in headless Chrome and prints it to
// PDF bytes.
func (e *rodExporter) ExportPDF(ctx context.Context, fragmentHTML string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, err
	}

	doc := fmt.Sprintf(exportShell, fragmentHTML)
	tmpPath, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailure, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrExportFailure, err)
	}

	return pdfBuf, nil
}

// Close releases browser resources.
func (e *rodExporter) Close() error {
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

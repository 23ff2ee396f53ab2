// Package texclip detects LaTeX equations in plain text, renders each
// equation to a PNG image, and rebuilds the text as a rich-clipboard
// payload (CF_HTML) with images substituted for markup.
//
// # Quick Start
//
// Create a service, convert text, and place the result on the clipboard:
//
//	svc := texclip.New()
//	defer svc.Close()
//
//	res, err := svc.Convert(ctx, texclip.Input{
//	    Text:  `The identity \[e^{i\pi}+1=0\] is due to Euler.`,
//	    Style: texclip.DefaultStyle(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = svc.SetClipboard(res)
//
// The result contains the composed HTML fragment (res.FragmentHTML), the
// CF_HTML wire payload (res.Payload), and the plain-text fallback.
//
// # Pipeline
//
// Conversion follows these stages:
//
//  1. Span scanning: five delimiter grammars locate equation spans
//  2. Equation rendering: each span is typeset to a cropped RGBA bitmap
//  3. PNG encoding and base64 validation
//  4. Fragment composition: text runs and image runs in document order
//  5. CF_HTML envelope encoding with byte-exact offset headers
//
// Per-equation render failures are skipped; the pipeline continues with
// the remaining spans. A run with no usable images never touches the
// clipboard backend.
//
// # Typesetting Engines
//
// Two engines implement the TypesettingEngine interface: a LaTeX
// toolchain invoked as a subprocess (default), and a pure-Go glyph
// rasterizer that needs no external tools. Select with WithEngine:
//
//	svc := texclip.New(texclip.WithEngine(texclip.NewGlyphEngine()))
//
// # Monitoring
//
// Monitor polls the system clipboard and converts every new text that
// contains equations:
//
//	mon := texclip.NewMonitor(svc, time.Second)
//	mon.Run(ctx)
//
// # PDF Export
//
// Export renders the composed fragment to a PDF via headless Chrome
// (go-rod). Chrome is downloaded automatically on first use; set
// ROD_BROWSER_BIN to use a pre-installed binary.
package texclip

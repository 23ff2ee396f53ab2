package texclip

import (
	"fmt"
	"strings"
)

// RenderedEquation pairs a span with its encoded image. An empty Data
// marks a render failure (or an image dropped by codec validation);
// the composer skips such spans without leaking their markup.
type RenderedEquation struct {
	Span EquationSpan
	Data string // base64 PNG; "" = failed
}

// OK reports whether the span produced a usable image.
func (r RenderedEquation) OK() bool {
	return r.Data != ""
}

// Run is one element of a rich fragment: a TextRun or an ImageRun.
type Run interface {
	writeHTML(b *strings.Builder)
}

// TextRun holds already-escaped HTML text.
type TextRun struct {
	HTML string
}

func (r TextRun) writeHTML(b *strings.Builder) {
	b.WriteString("<span>")
	b.WriteString(r.HTML)
	b.WriteString("</span>")
}

// ImageRun holds a base64 PNG rendered from one equation span.
type ImageRun struct {
	Data string
}

func (r ImageRun) writeHTML(b *strings.Builder) {
	fmt.Fprintf(b, `<img src="data:image/png;base64,%s" style="vertical-align: middle; margin: 2px 0;">`, r.Data)
}

// Fragment is an ordered sequence of runs in document order.
type Fragment struct {
	Runs []Run
}

// HTML renders the fragment to its HTML form.
func (f Fragment) HTML() string {
	var b strings.Builder
	for _, r := range f.Runs {
		r.writeHTML(&b)
	}
	return b.String()
}

// htmlEscaper escapes the characters HTML cannot carry verbatim and
// converts line breaks to <br>. Argument order matters: \r\n must be
// matched before \n.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", "<br>",
	"\n", "<br>",
)

// escapeText prepares raw text for inclusion in a TextRun.
func escapeText(s string) string {
	return htmlEscaper.Replace(s)
}

// Compose walks spans in ascending start order and builds the rich
// fragment: an escaped TextRun for the text before each successful
// span, an ImageRun for the span itself, and a final TextRun for the
// trailing text. A failed span is dropped entirely together with its
// surrounding pre-text up to the next successful span, so no raw
// markup leaks into the output. With onlyImages set, all text runs are
// suppressed.
//
// Composing a text with zero spans reproduces the input exactly,
// modulo HTML escaping and line-break normalization.
func Compose(text string, renders []RenderedEquation, onlyImages bool) Fragment {
	var runs []Run
	last := 0
	skipping := false

	for _, r := range renders {
		if !r.OK() {
			// Advancing the cursor past End keeps the failed markup
			// out of later text runs.
			if r.Span.End > last {
				last = r.Span.End
			}
			skipping = true
			continue
		}

		start := r.Span.Start
		if start < last {
			// Cross-grammar overlap: this span starts inside an
			// already-consumed region.
			start = last
		}
		if skipping {
			// Fold the text between the failed span and this one.
			last = start
			skipping = false
		}
		if !onlyImages {
			runs = append(runs, TextRun{HTML: escapeText(text[last:start])})
		}
		runs = append(runs, ImageRun{Data: r.Data})
		if r.Span.End > last {
			last = r.Span.End
		}
	}

	if !onlyImages {
		runs = append(runs, TextRun{HTML: escapeText(text[last:])})
	}

	return Fragment{Runs: runs}
}

package texclip

import (
	"regexp"
	"sort"
	"strings"
)

// SpanKind distinguishes display math from inline math.
type SpanKind int

const (
	KindInline SpanKind = iota
	KindDisplay
)

// String returns the kind name for logging.
func (k SpanKind) String() string {
	if k == KindDisplay {
		return "display"
	}
	return "inline"
}

// EquationSpan is one detected equation with its source offsets.
// Start and End are byte offsets into the scanned text, 0 <= Start < End.
type EquationSpan struct {
	Start   int
	End     int
	Raw     string   // full match including delimiters
	Content string   // delimiters stripped, trimmed, newlines collapsed
	Kind    SpanKind // DISPLAY or INLINE
}

// ScanResult pairs the cleaned equation strings with their spans.
// The two slices are positionally aligned and sorted by span start.
type ScanResult struct {
	Equations []string
	Matches   []EquationSpan
}

// grammar is one delimiter pattern applied independently during a scan.
type grammar struct {
	re   *regexp.Regexp
	kind SpanKind
}

// The five delimiter grammars. Each is non-greedy and matches across
// line breaks ((?s) makes . match \n). They are applied independently:
// matches that structurally overlap across grammars (e.g. $...$ nested
// in \[...\]) are all retained and only sorted by start offset.
var grammars = []grammar{
	{regexp.MustCompile(`(?s)\\\[(.*?)\\\]`), KindDisplay},
	{regexp.MustCompile(`(?s)\\\((.*?)\\\)`), KindInline},
	{regexp.MustCompile(`(?s)\$\$(.*?)\$\$`), KindDisplay},
	{regexp.MustCompile(`(?s)\$(.*?)\$`), KindInline},
	{regexp.MustCompile(`(?s)\\begin\{equation\}(.*?)\\end\{equation\}`), KindDisplay},
}

// newlineCollapser flattens multi-line equation content to one line.
var newlineCollapser = strings.NewReplacer("\r\n", " ", "\n", " ")

// Scan locates equation spans in text. It never fails: text with no
// matches yields a result with two empty slices.
func Scan(text string) ScanResult {
	if text == "" {
		return ScanResult{}
	}

	var spans []EquationSpan
	for _, g := range grammars {
		for _, idx := range g.re.FindAllStringSubmatchIndex(text, -1) {
			// idx[0:2] is the full match, idx[2:4] the inner group.
			content := cleanEquation(text[idx[2]:idx[3]])
			if degenerate(content) {
				continue
			}
			spans = append(spans, EquationSpan{
				Start:   idx[0],
				End:     idx[1],
				Raw:     text[idx[0]:idx[1]],
				Content: content,
				Kind:    g.kind,
			})
		}
	}

	// Stable sort keeps per-grammar order for spans sharing a start
	// offset across grammars.
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	equations := make([]string, len(spans))
	for i, s := range spans {
		equations[i] = s.Content
	}
	return ScanResult{Equations: equations, Matches: spans}
}

// cleanEquation strips surrounding whitespace and collapses interior
// line breaks to spaces so the typesetting engine sees one line.
func cleanEquation(inner string) string {
	return strings.TrimSpace(newlineCollapser.Replace(strings.TrimSpace(inner)))
}

// degenerate reports whether cleaned content cannot be an equation:
// empty, whitespace-only, or a lone backslash.
func degenerate(content string) bool {
	return content == "" || content == `\`
}

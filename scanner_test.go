package texclip

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan_Grammars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []EquationSpan
	}{
		{
			name: "display brackets",
			text: `A \[x^2\] B`,
			want: []EquationSpan{
				{Start: 2, End: 9, Raw: `\[x^2\]`, Content: "x^2", Kind: KindDisplay},
			},
		},
		{
			name: "inline parens",
			text: `see \(a+b\) here`,
			want: []EquationSpan{
				{Start: 4, End: 11, Raw: `\(a+b\)`, Content: "a+b", Kind: KindInline},
			},
		},
		{
			name: "double dollar display",
			text: `$$E=mc^2$$`,
			want: []EquationSpan{
				{Start: 0, End: 10, Raw: `$$E=mc^2$$`, Content: "E=mc^2", Kind: KindDisplay},
			},
		},
		{
			name: "single dollar inline",
			text: `price $x$ total`,
			want: []EquationSpan{
				{Start: 6, End: 9, Raw: `$x$`, Content: "x", Kind: KindInline},
			},
		},
		{
			name: "equation environment",
			text: `\begin{equation}y=x\end{equation}`,
			want: []EquationSpan{
				{Start: 0, End: 33, Raw: `\begin{equation}y=x\end{equation}`, Content: "y=x", Kind: KindDisplay},
			},
		},
		{
			name: "content trimmed",
			text: `\[  x+1  \]`,
			want: []EquationSpan{
				{Start: 0, End: 11, Raw: `\[  x+1  \]`, Content: "x+1", Kind: KindDisplay},
			},
		},
		{
			name: "multi-line content collapsed",
			text: "\\[x\n+y\\]",
			want: []EquationSpan{
				{Start: 0, End: 8, Raw: "\\[x\n+y\\]", Content: "x +y", Kind: KindDisplay},
			},
		},
		{
			name: "no matches",
			text: "plain prose with no markup",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Scan(tt.text)
			if diff := cmp.Diff(tt.want, got.Matches); diff != "" {
				t.Errorf("Scan() spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScan_DegenerateContentRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"empty inline dollars", `$$`},
		{"whitespace only", `$   $`},
		{"single backslash", `$ \ $`},
		{"empty display brackets", `\[\]`},
		{"whitespace display", "\\[ \n \\]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Scan(tt.text)
			if len(got.Matches) != 0 {
				t.Errorf("Scan(%q) = %d spans, want 0", tt.text, len(got.Matches))
			}
		})
	}
}

func TestScan_SortedAndAligned(t *testing.T) {
	t.Parallel()

	text := `first $a$ then \[b\] and \(c\) done`
	got := Scan(text)

	if len(got.Matches) != 3 {
		t.Fatalf("Scan() = %d spans, want 3", len(got.Matches))
	}
	if !sort.SliceIsSorted(got.Matches, func(i, j int) bool {
		return got.Matches[i].Start < got.Matches[j].Start
	}) {
		t.Errorf("spans not sorted by start: %+v", got.Matches)
	}
	if len(got.Equations) != len(got.Matches) {
		t.Fatalf("equations/matches length mismatch: %d vs %d", len(got.Equations), len(got.Matches))
	}
	for i, span := range got.Matches {
		if got.Equations[i] != span.Content {
			t.Errorf("equations[%d] = %q, want %q", i, got.Equations[i], span.Content)
		}
		if span.Start >= span.End {
			t.Errorf("span %d has start %d >= end %d", i, span.Start, span.End)
		}
	}

	wantOrder := []string{"a", "b", "c"}
	if diff := cmp.Diff(wantOrder, got.Equations); diff != "" {
		t.Errorf("equation order mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_CrossGrammarOverlapRetained(t *testing.T) {
	t.Parallel()

	// A dollar-delimited span nested inside a display span: both are
	// kept, sorted by start, with no arbitration between grammars.
	text := `\[ a $b$ c \]`
	got := Scan(text)

	if len(got.Matches) != 2 {
		t.Fatalf("Scan() = %d spans, want 2 (display + nested inline)", len(got.Matches))
	}

	display, inline := got.Matches[0], got.Matches[1]
	if display.Kind != KindDisplay || display.Start != 0 {
		t.Errorf("first span = %+v, want display at start 0", display)
	}
	if inline.Kind != KindInline || inline.Content != "b" {
		t.Errorf("second span = %+v, want inline %q", inline, "b")
	}
	if inline.Start <= display.Start || inline.End >= display.End {
		t.Errorf("inline span %+v not nested inside display span %+v", inline, display)
	}
}

func TestScan_PerGrammarNonOverlapping(t *testing.T) {
	t.Parallel()

	// Four dollar signs form exactly two inline matches, not three.
	text := `$a$ and $b$`
	got := Scan(text)

	var inline []string
	for _, m := range got.Matches {
		if m.Kind == KindInline {
			inline = append(inline, m.Content)
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, inline); diff != "" {
		t.Errorf("inline matches mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_NeverPanicsOnHostileInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`\[unclosed`,
		`$`,
		`$$$`,
		`\begin{equation}never ends`,
		"\x00\xff\xfe",
		`\]\[`,
	}
	for _, text := range inputs {
		_ = Scan(text) // must not panic
	}
}

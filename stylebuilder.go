package texclip

import (
	"fmt"
	"strings"
)

// defaultFontFamily is the font stack for text runs in the fragment.
const defaultFontFamily = "Arial, sans-serif"

// buildStyleCSS generates the style block prepended to the composed
// fragment so pasted text keeps the configured color and size.
func buildStyleCSS(style Style) string {
	return fmt.Sprintf(`<style>
body {
  color: %s;
  font-family: %s;
  font-size: %dpt;
  line-height: 1.5;
}
p, div, span {
  color: %s !important;
}
img {
  vertical-align: middle;
  margin: 2px 0;
}
</style>
`, escapeCSSValue(style.Color), defaultFontFamily, style.FontSize, escapeCSSValue(style.Color))
}

// escapeCSSValue strips characters that would let a color value escape
// its CSS declaration.
func escapeCSSValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

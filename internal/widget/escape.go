package widget

import (
	"fmt"
	"strings"
)

// EscapeJS escapes s for embedding inside a single or double quoted
// JavaScript string literal that itself lives in a <script> block.
func EscapeJS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 8)

	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			sb.WriteString(`\'`)
		case '/':
			// keeps "</script>" from terminating the enclosing block
			sb.WriteString(`\/`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// Quote returns s escaped and wrapped in double quotes.
func Quote(s string) string {
	return `"` + EscapeJS(s) + `"`
}

package markdown

import (
	"strings"

	stripmd "github.com/writeas/go-strip-markdown"
)

// Excerpt returns the first non-blank line of content with surrounding
// whitespace removed.
func Excerpt(content string) string {
	for line := range strings.Lines(content) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// PlainText strips Markdown syntax and collapses whitespace so the result can
// be used as a feed summary.
func PlainText(markdown string) string {
	stripped := stripmd.Strip(markdown)
	return strings.Join(strings.Fields(stripped), " ")
}

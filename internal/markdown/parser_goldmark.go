package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

var defaultExtensions = []string{"gfm", "linkify", "tasklist"}

// GoldmarkParser renders post bodies with one goldmark engine built up front.
// goldmark.Markdown is safe for concurrent Convert calls.
type GoldmarkParser struct {
	engine goldmark.Markdown
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

// NewGoldmarkParser builds the engine for opts. Unknown extension names are
// ignored.
func NewGoldmarkParser(opts interfaces.ParseOptions) *GoldmarkParser {
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	names := opts.Extensions
	if len(names) == 0 {
		names = defaultExtensions
	}

	return &GoldmarkParser{
		engine: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
			goldmark.WithExtensions(extensions(names)...),
		),
	}
}

// Parse renders markdown into HTML.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func extensions(names []string) []goldmark.Extender {
	seen := map[string]bool{}
	var out []goldmark.Extender
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case "gfm":
			out = append(out, extension.GFM)
		case "table", "tables":
			out = append(out, extension.Table)
		case "strikethrough":
			out = append(out, extension.Strikethrough)
		case "linkify", "autolink":
			out = append(out, extension.Linkify)
		case "tasklist":
			out = append(out, extension.TaskList)
		case "definition":
			out = append(out, extension.DefinitionList)
		case "footnote":
			out = append(out, extension.Footnote)
		case "typographer":
			out = append(out, extension.Typographer)
		}
	}
	return out
}

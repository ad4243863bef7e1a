package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// ErrUnterminatedFrontMatter reports an opening --- or +++ delimiter with no
// matching closing line.
var ErrUnterminatedFrontMatter = errors.New("front matter block is not closed")

// ParseFrontMatter extracts the metadata block and Markdown body from source.
// YAML (---), TOML (+++) and JSON front matter are recognised. Sources without
// a metadata block yield an empty map and the full source as body.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	if err := checkDelimiters(source); err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// checkDelimiters fails when the first line opens a block that never closes.
// frontmatter.Parse treats that case as plain Markdown.
func checkDelimiters(source []byte) error {
	first := true
	delim := ""
	for line := range strings.Lines(string(source)) {
		trimmed := strings.TrimRight(line, " \t\r\n")
		if first {
			first = false
			trimmed = strings.TrimPrefix(trimmed, "\ufeff")
			if trimmed != "---" && trimmed != "+++" {
				return nil
			}
			delim = trimmed
			continue
		}
		if trimmed == delim {
			return nil
		}
	}
	if delim == "" {
		return nil
	}
	return ErrUnterminatedFrontMatter
}

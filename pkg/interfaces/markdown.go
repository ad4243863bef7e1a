package interfaces

// MarkdownParser renders a post body into HTML. A single instance serves
// every post in a build, so implementations must be safe for concurrent use.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
}

// ParseOptions configures how post bodies are rendered. Extensions names
// goldmark extensions; empty selects gfm, linkify and tasklist.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML embedded in post bodies.
	SafeMode bool
}

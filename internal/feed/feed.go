package feed

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Epoch is the feed-level updated timestamp used when no item qualifies.
var Epoch = time.Unix(0, 0).UTC()

const (
	defaultFeedPath  = "feed.xml"
	defaultLanguage  = "en"
	defaultTitle     = "Blog"
	generatorName    = "go-blog"
	fallbackBaseLink = "http://localhost"
)

// Config describes the feed being produced.
type Config struct {
	Title      string
	Subtitle   string
	BaseURL    string
	FeedPath   string
	AuthorName string
	Language   string
	// MaxItems caps the number of entries. Zero keeps every item.
	MaxItems int
}

// Item is the per-post projection rendered into one feed entry.
type Item struct {
	ID           string
	Slug         string
	Title        string
	CanonicalURL string
	Excerpt      string
	Summary      string
	HTML         string
	Date         time.Time
	Author       string
	Categories   []string
}

// Skipped records a post left out of the feed and why.
type Skipped struct {
	Slug     string
	Filename string
	Reason   string
}

// Result is the value produced by one Generate call.
type Result struct {
	Document string
	Items    []Item
	Updated  time.Time
	Skipped  []Skipped
}

// Generator renders Atom documents from post records. It keeps no state
// between calls.
type Generator struct {
	cfg    Config
	parser interfaces.MarkdownParser
	logger interfaces.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger that receives skip warnings.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator constructs a Generator. A nil parser falls back to the
// goldmark renderer with default options.
func NewGenerator(cfg Config, parser interfaces.MarkdownParser, opts ...Option) *Generator {
	if parser == nil {
		parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	}
	g := &Generator{
		cfg:    cfg,
		parser: parser,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the configuration the generator was built with.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate builds the feed for records. Unpublished or incomplete records and
// records whose body fails to render are skipped with a warning. The only
// error returned is the context's.
func (g *Generator) Generate(ctx context.Context, records []*posts.Record) (*Result, error) {
	eligible := make([]*posts.Record, 0, len(records))
	result := &Result{Updated: Epoch}

	for _, record := range records {
		if record == nil {
			continue
		}
		if reason := skipReason(record); reason != "" {
			g.skip(result, record, reason)
			continue
		}
		eligible = append(eligible, record)
	}
	slices.SortFunc(eligible, posts.NewestFirst)

	title := cases.Title(languageTag(g.cfg.Language))
	for _, record := range eligible {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.cfg.MaxItems > 0 && len(result.Items) >= g.cfg.MaxItems {
			break
		}
		rendered, err := g.parser.Parse([]byte(record.Content))
		if err != nil {
			g.skip(result, record, fmt.Sprintf("render: %v", err))
			continue
		}
		excerpt := record.Excerpt
		if excerpt == "" {
			excerpt = markdown.Excerpt(record.Content)
		}
		item := Item{
			ID:           identity.URN(identity.PostUUID(record.Slug)),
			Slug:         record.Slug,
			Title:        record.Title,
			CanonicalURL: absoluteURL(g.cfg.BaseURL, record.CanonicalPath),
			Excerpt:      excerpt,
			Summary:      markdown.PlainText(excerpt),
			HTML:         string(rendered),
			Date:         record.Date.UTC(),
			Author:       record.Author,
			Categories:   CategorySet(record.Categories),
		}
		if item.Date.After(result.Updated) || len(result.Items) == 0 {
			result.Updated = item.Date
		}
		result.Items = append(result.Items, item)
	}

	result.Document = g.render(result, title)
	g.logger.Debug("feed.generated",
		"items", len(result.Items),
		"skipped", len(result.Skipped),
		"updated", result.Updated.Format(time.RFC3339),
	)
	return result, nil
}

func (g *Generator) skip(result *Result, record *posts.Record, reason string) {
	result.Skipped = append(result.Skipped, Skipped{
		Slug:     record.Slug,
		Filename: record.SourcePath,
		Reason:   reason,
	})
	logging.WithPostContext(g.logger, record.SourcePath, record.Slug, "feed").Warn("feed.item.skipped", "reason", reason)
}

func skipReason(record *posts.Record) string {
	if !record.Published {
		return "unpublished"
	}
	if missing := record.MissingFields(); len(missing) > 0 {
		return "missing " + strings.Join(missing, ", ")
	}
	return ""
}

// CategorySet splits delimiter-joined category values and removes
// duplicates, keeping the first occurrence order.
func CategorySet(categories []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, value := range categories {
		for _, part := range strings.Split(value, ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func languageTag(code string) language.Tag {
	if tag, err := language.Parse(strings.TrimSpace(code)); err == nil {
		return tag
	}
	return language.English
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return fallbackBaseLink
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase + "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

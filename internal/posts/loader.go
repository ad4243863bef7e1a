package posts

import (
	"context"
	"path"
	"strings"

	"github.com/goliatone/go-slug"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultWorkers = 4

// Loader turns raw files into records. It holds no per-call state and can be
// shared between goroutines.
type Loader struct {
	logger  interfaces.Logger
	workers int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWorkers bounds the number of files parsed concurrently by LoadBatch.
// Values below one fall back to the default.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLoader constructs a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:  logging.NoOp(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load parses a single raw file. It returns a *ParseError when the front
// matter or one of its values cannot be read and a *MissingFieldError when
// title, date or author is absent.
func (l *Loader) Load(raw RawFile) (*Record, error) {
	meta, body, err := markdown.ParseFrontMatter([]byte(raw.Text))
	if err != nil {
		return nil, &ParseError{Filename: raw.Filename, Err: err}
	}
	fm := newFrontMatter(meta)

	title, err := fm.text(FieldTitle)
	if err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldTitle, Err: err}
	}
	author, err := fm.text(FieldAuthor)
	if err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldAuthor, Err: err}
	}
	date, err := fm.date()
	if err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldDate, Err: err}
	}

	record := &Record{
		Title:      title,
		Author:     author,
		Date:       date,
		SourcePath: raw.Filename,
	}
	if missing := record.MissingFields(); len(missing) > 0 {
		return nil, &MissingFieldError{Filename: raw.Filename, Fields: missing}
	}

	if record.Categories, err = fm.categories(); err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldCategories, Err: err}
	}
	if record.Published, err = fm.published(); err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldPublished, Err: err}
	}
	if record.RedirectFrom, err = fm.redirects(); err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldRedirectFrom, Err: err}
	}
	override, err := fm.text(FieldSlug)
	if err != nil {
		return nil, &ParseError{Filename: raw.Filename, Field: FieldSlug, Err: err}
	}

	record.Slug = strings.Trim(override, "/")
	if record.Slug == "" {
		record.Slug = SlugFromFilename(raw.Filename)
	}
	record.Content = string(body)
	record.Excerpt = markdown.Excerpt(record.Content)
	record.CanonicalPath = CanonicalPath(record.Categories, record.Slug)

	logging.WithPostContext(l.logger, raw.Filename, record.Slug, "load").Debug("posts.loaded",
		"published", record.Published,
		"canonical_path", record.CanonicalPath,
	)
	return record, nil
}

// BatchResult holds the outcome of LoadBatch. Records and Errors both keep
// the input order of the files they came from.
type BatchResult struct {
	Records []*Record
	Errors  []error
}

// Failed reports whether any file failed to load.
func (r *BatchResult) Failed() bool {
	return r != nil && len(r.Errors) > 0
}

// LoadBatch parses every file and collects per-file failures without
// aborting the batch. Files are parsed concurrently; the returned slices do
// not depend on scheduling. The error is non-nil only when ctx is done.
func (l *Loader) LoadBatch(ctx context.Context, raws []RawFile) (*BatchResult, error) {
	records := make([]*Record, len(raws))
	failures := make([]error, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			record, err := l.Load(raw)
			if err != nil {
				l.logger.Warn("posts.load.failed", "post_file", raw.Filename, "error", err)
				failures[i] = err
				return nil
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i := range raws {
		if records[i] != nil {
			result.Records = append(result.Records, records[i])
		}
		if failures[i] != nil {
			result.Errors = append(result.Errors, failures[i])
		}
	}
	l.logger.Debug("posts.batch.loaded", "records", len(result.Records), "errors", len(result.Errors))
	return result, nil
}

// SlugFromFilename returns the base name of filename without its extension.
func SlugFromFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// CanonicalPath joins the category segments and the slug into the path the
// post is served at. Posts without categories live under /post/.
func CanonicalPath(categories []string, postSlug string) string {
	if len(categories) == 0 {
		return "/post/" + postSlug
	}
	segments := make([]string, 0, len(categories)+1)
	for _, category := range categories {
		segments = append(segments, categorySegment(category))
	}
	segments = append(segments, postSlug)
	return "/" + strings.Join(segments, "/")
}

func categorySegment(category string) string {
	trimmed := strings.TrimSpace(category)
	if normalized, err := slug.Normalize(trimmed); err == nil && normalized != "" {
		return normalized
	}
	return trimmed
}

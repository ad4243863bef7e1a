package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/feed"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/readinglist"
	"github.com/goliatone/go-blog/internal/source"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	// ErrLoadFailed is returned when FailOnLoadErrors is set and at least one
	// post could not be read or parsed.
	ErrLoadFailed = errors.New("generator: post load failed")
	// ErrIndexInvalid wraps index invariant violations.
	ErrIndexInvalid   = errors.New("generator: index invalid")
	errSourceRequired = errors.New("generator: content source is required")
	errReadingListFS  = errors.New("generator: reading list path set without a content filesystem")
)

// Default artifact locations, matching the layout of the published site.
const (
	DefaultFeedPath          = "feed.xml"
	DefaultPostsManifestPath = "posts/posts.json"
	DefaultRedirectsPath     = "posts/post-redirects.json"
	DefaultReadingListOutput = "reading-list.json"
	DefaultSitemapPath       = "sitemap.xml"
)

// Service runs the full pipeline from content source to written artifacts.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir         string
	BaseURL           string
	FeedPath          string
	PostsManifestPath string
	RedirectsPath     string
	GenerateSitemap   bool
	// ReadingListPath names a YAML reading list inside Dependencies.Content.
	// Empty disables the reading list artifact.
	ReadingListPath  string
	FailOnLoadErrors bool
}

// BuildOptions narrows the behaviour of a single run.
type BuildOptions struct {
	DryRun bool
}

// Artifact is one generated output file.
type Artifact struct {
	Path        string
	ContentType string
	Category    WriteCategory
	Checksum    string
	Content     []byte
}

// BuildResult reports what a build produced.
type BuildResult struct {
	Index      *index.Index
	Feed       *feed.Result
	Records    []*posts.Record
	LoadErrors []error
	Artifacts  []Artifact
	Duration   time.Duration
	DryRun     bool
}

// Artifact returns the artifact stored at p.
func (r *BuildResult) Artifact(p string) (Artifact, bool) {
	if r == nil {
		return Artifact{}, false
	}
	p = cleanArtifactPath(p)
	for _, artifact := range r.Artifacts {
		if artifact.Path == p {
			return artifact, true
		}
	}
	return Artifact{}, false
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Source source.Source
	Loader *posts.Loader
	Feed   *feed.Generator
	Writer Writer
	// Content is consulted for auxiliary documents such as the reading list.
	Content fs.FS
	Logger  interfaces.Logger
}

// NewService wires a generator with the provided configuration and
// dependencies. Missing optional collaborators get defaults.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if deps.Loader == nil {
		deps.Loader = posts.NewLoader(posts.WithLogger(deps.Logger))
	}
	if deps.Feed == nil {
		deps.Feed = feed.NewGenerator(feed.Config{
			BaseURL:  cfg.BaseURL,
			FeedPath: firstNonEmpty(cfg.FeedPath, DefaultFeedPath),
		}, nil, feed.WithLogger(deps.Logger))
	}
	if deps.Writer == nil {
		if strings.TrimSpace(cfg.OutputDir) != "" {
			deps.Writer = NewDirWriter(cfg.OutputDir)
		} else {
			deps.Writer = noopWriter{}
		}
	}
	return &service{cfg: cfg, deps: deps, now: time.Now}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Source == nil {
		return nil, errSourceRequired
	}

	start := s.now()
	logger := s.deps.Logger

	raws, readErrs, err := source.ReadAll(ctx, s.deps.Source)
	if err != nil {
		return nil, fmt.Errorf("generator: read content: %w", err)
	}
	batch, err := s.deps.Loader.LoadBatch(ctx, raws)
	if err != nil {
		return nil, err
	}

	loadErrs := append(readErrs, batch.Errors...)
	for _, loadErr := range loadErrs {
		logger.Warn("generator.post.failed", "error", loadErr)
	}
	if s.cfg.FailOnLoadErrors && len(loadErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, errors.Join(loadErrs...))
	}

	idx, err := index.Build(batch.Records)
	if err != nil {
		logger.Error("generator.index.invalid", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrIndexInvalid, err)
	}

	feedResult, err := s.deps.Feed.Generate(ctx, batch.Records)
	if err != nil {
		return nil, err
	}

	artifacts, err := s.collectArtifacts(idx, feedResult, batch.Records)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := s.writeArtifacts(ctx, artifacts); err != nil {
			return nil, err
		}
	}

	result := &BuildResult{
		Index:      idx,
		Feed:       feedResult,
		Records:    batch.Records,
		LoadErrors: loadErrs,
		Artifacts:  artifacts,
		Duration:   s.now().Sub(start),
		DryRun:     opts.DryRun,
	}
	logger.Info("generator.build.completed",
		"records", len(batch.Records),
		"published", len(idx.SortedSlice()),
		"redirects", len(idx.Redirects()),
		"feed_items", len(feedResult.Items),
		"load_errors", len(loadErrs),
		"artifacts", len(artifacts),
		"dry_run", opts.DryRun,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *service) collectArtifacts(idx *index.Index, feedResult *feed.Result, records []*posts.Record) ([]Artifact, error) {
	var artifacts []Artifact
	add := func(p string, category WriteCategory, contentType string, content []byte) {
		artifacts = append(artifacts, Artifact{
			Path:        cleanArtifactPath(p),
			ContentType: contentType,
			Category:    category,
			Checksum:    computeHash(content),
			Content:     content,
		})
	}

	add(firstNonEmpty(s.cfg.FeedPath, DefaultFeedPath), CategoryFeed, feed.ContentType, []byte(feedResult.Document))

	manifest, err := idx.PostsManifest()
	if err != nil {
		return nil, fmt.Errorf("generator: posts manifest: %w", err)
	}
	add(firstNonEmpty(s.cfg.PostsManifestPath, DefaultPostsManifestPath), CategoryManifest, "application/json", manifest)

	redirects, err := idx.RedirectsManifest()
	if err != nil {
		return nil, fmt.Errorf("generator: redirects manifest: %w", err)
	}
	add(firstNonEmpty(s.cfg.RedirectsPath, DefaultRedirectsPath), CategoryRedirects, "application/json", redirects)

	if s.cfg.GenerateSitemap {
		add(DefaultSitemapPath, CategorySitemap, "application/xml", []byte(BuildSitemap(s.cfg.BaseURL, records)))
	}

	if name := strings.TrimSpace(s.cfg.ReadingListPath); name != "" {
		if s.deps.Content == nil {
			return nil, errReadingListFS
		}
		list, err := readinglist.Load(s.deps.Content, name)
		if err != nil {
			return nil, err
		}
		data, err := list.JSON()
		if err != nil {
			return nil, fmt.Errorf("generator: reading list: %w", err)
		}
		add(DefaultReadingListOutput, CategoryReadingList, "application/json", data)
	}
	return artifacts, nil
}

func (s *service) writeArtifacts(ctx context.Context, artifacts []Artifact) error {
	dirCache := map[string]struct{}{}
	for _, artifact := range artifacts {
		if err := ensureDir(ctx, s.deps.Writer, dirCache, path.Dir(artifact.Path)); err != nil {
			return fmt.Errorf("generator: ensure dir for %s: %w", artifact.Path, err)
		}
		if err := s.deps.Writer.WriteFile(ctx, WriteFileRequest{
			Path:        artifact.Path,
			Content:     bytes.NewReader(artifact.Content),
			Size:        int64(len(artifact.Content)),
			Category:    artifact.Category,
			ContentType: artifact.ContentType,
			Checksum:    artifact.Checksum,
		}); err != nil {
			return fmt.Errorf("generator: write %s: %w", artifact.Path, err)
		}
		s.deps.Logger.Debug("generator.artifact.written",
			"path", artifact.Path,
			"category", string(artifact.Category),
			"size", len(artifact.Content),
		)
	}
	return nil
}

func ensureDir(ctx context.Context, writer Writer, cache map[string]struct{}, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if _, ok := cache[dir]; ok {
		return nil
	}
	if err := writer.EnsureDir(ctx, dir); err != nil {
		return err
	}
	cache[dir] = struct{}{}
	return nil
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

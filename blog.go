package blog

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-blog/internal/commands"
	buildcmd "github.com/goliatone/go-blog/internal/commands/build"
	"github.com/goliatone/go-blog/internal/feed"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/server"
	"github.com/goliatone/go-blog/internal/source"
	"github.com/goliatone/go-blog/internal/watch"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Record is a fully parsed post.
type Record = posts.Record

// BuildResult reports what a site build produced.
type BuildResult = generator.BuildResult

// BuildSiteCommand asks the module to run the pipeline once.
type BuildSiteCommand = buildcmd.BuildSiteCommand

// Writer persists generated artifacts.
type Writer = generator.Writer

// Source lists and reads raw post files.
type Source = source.Source

// Build triggers.
const (
	TriggerCLI   = buildcmd.TriggerCLI
	TriggerServe = buildcmd.TriggerServe
	TriggerWatch = buildcmd.TriggerWatch
)

// Module wires the loader, index, feed and generator into one runnable
// pipeline plus an optional preview server.
type Module struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	logger    interfaces.Logger
	contentFS fs.FS
	source    source.Source
	writer    generator.Writer
	generator generator.Service
	builder   *buildcmd.BuildSiteHandler
	server    *server.Server

	buildMu sync.Mutex
	last    atomic.Pointer[generator.BuildResult]
}

// Option customises Module construction.
type Option func(*Module)

// WithLoggerProvider replaces the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// WithWriter replaces the output directory writer.
func WithWriter(writer Writer) Option {
	return func(m *Module) {
		if writer != nil {
			m.writer = writer
		}
	}
}

// WithSource replaces the directory or manifest source derived from
// Config.Content.
func WithSource(src Source) Option {
	return func(m *Module) {
		if src != nil {
			m.source = src
		}
	}
}

// WithContentFS sets the filesystem posts and the reading list are read
// from. Defaults to os.DirFS(Config.Content.Dir).
func WithContentFS(fsys fs.FS) Option {
	return func(m *Module) {
		if fsys != nil {
			m.contentFS = fsys
		}
	}
}

// New validates cfg and wires the pipeline.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.provider == nil {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}
	m.logger = logging.ModuleLogger(m.provider, "blog")

	if m.contentFS == nil {
		m.contentFS = os.DirFS(cfg.Content.Dir)
	}
	if m.source == nil {
		m.source = newSource(cfg.Content, m.contentFS)
	}
	if m.writer == nil {
		m.writer = generator.NewDirWriter(cfg.Generator.OutputDir)
	}

	parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		SafeMode:   cfg.Markdown.SafeMode,
	})

	loader := posts.NewLoader(
		posts.WithLogger(logging.PostsLogger(m.provider)),
		posts.WithWorkers(cfg.Generator.Workers),
	)

	feedGen := feed.NewGenerator(feed.Config{
		Title:      cfg.Site.Title,
		Subtitle:   cfg.Site.Subtitle,
		BaseURL:    cfg.Site.BaseURL,
		FeedPath:   generator.DefaultFeedPath,
		AuthorName: cfg.Site.Author,
		Language:   cfg.Site.Language,
		MaxItems:   cfg.Generator.FeedMaxItems,
	}, parser, feed.WithLogger(logging.FeedLogger(m.provider)))

	m.generator = generator.NewService(generator.Config{
		OutputDir:        cfg.Generator.OutputDir,
		BaseURL:          cfg.Site.BaseURL,
		GenerateSitemap:  cfg.Generator.GenerateSitemap,
		ReadingListPath:  cfg.Content.ReadingList,
		FailOnLoadErrors: cfg.Generator.FailOnLoadErrors,
	}, generator.Dependencies{
		Source:  m.source,
		Loader:  loader,
		Feed:    feedGen,
		Writer:  m.writer,
		Content: m.contentFS,
		Logger:  logging.GeneratorLogger(m.provider),
	})

	m.server = server.New(server.WithLogger(logging.ServerLogger(m.provider)))
	m.builder = buildcmd.NewBuildSiteHandler(
		m.generator,
		commands.CommandLogger(m.provider, "build"),
		m.built,
	)

	return m, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, module)
}

// Generator exposes the underlying build service.
func (m *Module) Generator() generator.Service {
	return m.generator
}

// Handler serves the latest successful build.
func (m *Module) Handler() http.Handler {
	return m.server
}

// Last returns the most recent successful build, or nil.
func (m *Module) Last() *BuildResult {
	return m.last.Load()
}

// Build runs the pipeline once through the command handler. Builds are
// serialised so concurrent triggers never write the output at the same time.
func (m *Module) Build(ctx context.Context, msg BuildSiteCommand) (*BuildResult, error) {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	before := m.last.Load()
	if err := m.builder.Execute(ctx, msg); err != nil {
		return nil, err
	}
	result := m.last.Load()
	if result == before {
		return nil, fmt.Errorf("blog: build %s produced no result", msg.Type())
	}
	return result, nil
}

// Watch rebuilds the site whenever the content directory changes. It
// blocks until ctx is done. Failed rebuilds are logged and the previous
// snapshot stays live.
func (m *Module) Watch(ctx context.Context) error {
	m.logger.Info("blog.watch.starting", "dir", m.cfg.Content.Dir)
	watcher := watch.New(
		[]string{m.cfg.Content.Dir},
		func(ctx context.Context, changed []string) error {
			_, err := m.Build(ctx, BuildSiteCommand{Trigger: TriggerWatch, Changed: changed})
			return err
		},
		watch.WithDebounce(m.cfg.Server.Debounce),
		watch.WithLogger(logging.WatchLogger(m.provider)),
	)
	return watcher.Run(ctx)
}

func (m *Module) built(result *generator.BuildResult) {
	m.last.Store(result)
	if !result.DryRun {
		m.server.Update(result)
	}
}

func newSource(cfg ContentConfig, fsys fs.FS) source.Source {
	if manifest := strings.TrimSpace(cfg.Manifest); manifest != "" {
		return source.NewManifest(fsys, path.Clean(strings.TrimPrefix(manifest, "/")))
	}
	return source.NewDirectory(fsys, source.DirectoryOptions{
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, _ := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

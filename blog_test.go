package blog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"2024/first.md":  {Data: []byte("---\ntitle: First\nauthor: Ada\ndate: 2024-01-01\npublished: true\ncategories: tech\nredirect_from: /old/first\n---\nHello.\n")},
		"2024/second.md": {Data: []byte("---\ntitle: Second\nauthor: Ada\ndate: 2024-02-01\npublished: true\n---\nWorld.\n")},
		"drafts/wip.md":  {Data: []byte("---\ntitle: WIP\nauthor: Ada\ndate: 2024-03-01\n---\nNot yet.\n")},
	}
}

func newModule(t *testing.T, fsys fstest.MapFS, writer blog.Writer) *blog.Module {
	t.Helper()
	cfg := blog.DefaultConfig()
	cfg.Site.BaseURL = "https://blog.example.com"
	cfg.Site.Author = "Ada"

	module, err := blog.New(cfg,
		blog.WithContentFS(fsys),
		blog.WithWriter(writer),
		blog.WithLoggerProvider(noopProvider{}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return module
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Generator.OutputDir = ""

	if _, err := blog.New(cfg); !errors.Is(err, blog.ErrOutputDirRequired) {
		t.Fatalf("expected ErrOutputDirRequired, got %v", err)
	}
}

func TestNewSelectsGoLoggerProvider(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	if _, err := blog.New(cfg, blog.WithContentFS(fstest.MapFS{}), blog.WithWriter(generator.NewMemoryWriter())); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestModuleBuildWritesAndServes(t *testing.T) {
	writer := generator.NewMemoryWriter()
	module := newModule(t, contentFS(), writer)

	result, err := module.Build(context.Background(), blog.BuildSiteCommand{Trigger: blog.TriggerCLI})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Index.Len() != 3 {
		t.Fatalf("expected 3 indexed posts, got %d", result.Index.Len())
	}
	if len(result.Feed.Items) != 2 {
		t.Fatalf("expected 2 feed items, got %d", len(result.Feed.Items))
	}
	if module.Last() != result {
		t.Fatal("expected Last to return the latest build")
	}

	feedDoc, err := writer.ReadFile("feed.xml")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(feedDoc), "https://blog.example.com/tech/first") {
		t.Fatalf("feed missing first post:\n%s", feedDoc)
	}

	rec := httptest.NewRecorder()
	module.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/old/first", nil))
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/tech/first" {
		t.Fatalf("expected redirect to /tech/first, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestModuleDryRunDoesNotPublish(t *testing.T) {
	writer := generator.NewMemoryWriter()
	module := newModule(t, contentFS(), writer)

	if _, err := module.Build(context.Background(), blog.BuildSiteCommand{DryRun: true}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	files, err := writer.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}

	rec := httptest.NewRecorder()
	module.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before a real build, got %d", rec.Code)
	}
}

func TestModuleBuildReportsDuplicateSlugs(t *testing.T) {
	fsys := contentFS()
	fsys["2024/clash.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Clash\nauthor: Ada\ndate: 2024-04-01\nslug: first\n---\nbody\n")}
	module := newModule(t, fsys, generator.NewMemoryWriter())

	_, err := module.Build(context.Background(), blog.BuildSiteCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if module.Last() != nil {
		t.Fatal("failed build must not replace the snapshot")
	}
}

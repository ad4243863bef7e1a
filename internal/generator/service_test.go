package generator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/source"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/a.md": {Data: []byte("---\ntitle: A\nauthor: X\ndate: 2024-01-01\npublished: true\ncategories: tech\nredirect_from:\n  - /old/a\n---\nHello from A.\n")},
		"posts/b.md": {Data: []byte("---\ntitle: B\nauthor: Y\ndate: 2024-02-01\npublished: false\n---\nDraft B.\n")},
		"posts/c.md": {Data: []byte("---\ntitle: C\nauthor: Z\n---\nNo date.\n")},
		"reading-list.yaml": {Data: []byte("- name: Go\n  author: Donovan\n  difficulty: 3\n")},
	}
}

func newTestService(cfg Config, fsys fstest.MapFS, writer Writer) Service {
	return NewService(cfg, Dependencies{
		Source:  source.NewDirectory(fsys, source.DirectoryOptions{Root: "posts"}),
		Writer:  writer,
		Content: fsys,
	})
}

func TestBuildWritesArtifacts(t *testing.T) {
	writer := NewMemoryWriter()
	svc := newTestService(Config{
		BaseURL:         "https://blog.example.com",
		GenerateSitemap: true,
		ReadingListPath: "reading-list.yaml",
	}, contentFS(), writer)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if len(result.LoadErrors) != 1 {
		t.Fatalf("expected one load error, got %v", result.LoadErrors)
	}
	var missing *posts.MissingFieldError
	if !errors.As(result.LoadErrors[0], &missing) || missing.Filename != "posts/c.md" {
		t.Fatalf("unexpected load error %v", result.LoadErrors[0])
	}

	files, err := writer.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"feed.xml", "posts/post-redirects.json", "posts/posts.json", "reading-list.json", "sitemap.xml"}
	if !slices.Equal(files, want) {
		t.Fatalf("expected files %v, got %v", want, files)
	}

	manifest, err := writer.ReadFile("posts/posts.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(manifest) != "[\n  \"a\"\n]\n" {
		t.Fatalf("unexpected manifest %q", manifest)
	}

	redirects, err := writer.ReadFile("posts/post-redirects.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(redirects), `"to": "/tech/a"`) {
		t.Fatalf("unexpected redirects %s", redirects)
	}

	feedDoc, ok := result.Artifact("/feed.xml")
	if !ok {
		t.Fatal("expected feed artifact")
	}
	if feedDoc.ContentType != "application/atom+xml" || feedDoc.Checksum == "" {
		t.Fatalf("unexpected feed artifact metadata %+v", feedDoc)
	}
	if !strings.Contains(string(feedDoc.Content), "https://blog.example.com/tech/a") {
		t.Fatalf("feed missing post a:\n%s", feedDoc.Content)
	}
	if strings.Contains(string(feedDoc.Content), "Draft B") {
		t.Fatal("feed must not contain unpublished posts")
	}
}

func TestBuildDryRunSkipsWrites(t *testing.T) {
	writer := NewMemoryWriter()
	result, err := newTestService(Config{}, contentFS(), writer).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !result.DryRun || len(result.Artifacts) != 3 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	files, err := writer.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no writes on dry run, got %v", files)
	}
}

func TestBuildFailOnLoadErrors(t *testing.T) {
	_, err := newTestService(Config{FailOnLoadErrors: true}, contentFS(), NewMemoryWriter()).
		Build(context.Background(), BuildOptions{})
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
	if !errors.Is(err, posts.ErrMissingField) {
		t.Fatalf("expected wrapped missing field error, got %v", err)
	}
}

func TestBuildIndexViolationIsFatal(t *testing.T) {
	fsys := contentFS()
	fsys["posts/dup.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Dup\nauthor: X\ndate: 2024-03-01\nslug: a\n---\nbody\n")}

	writer := NewMemoryWriter()
	_, err := newTestService(Config{}, fsys, writer).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, ErrIndexInvalid) || !errors.Is(err, index.ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug failure, got %v", err)
	}
	files, _ := writer.Files()
	if len(files) != 0 {
		t.Fatalf("expected nothing written, got %v", files)
	}
}

func TestBuildRequiresSource(t *testing.T) {
	if _, err := NewService(Config{}, Dependencies{}).Build(context.Background(), BuildOptions{}); err == nil {
		t.Fatal("expected error without a source")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	run := func() []Artifact {
		result, err := newTestService(Config{GenerateSitemap: true}, contentFS(), nil).Build(context.Background(), BuildOptions{DryRun: true})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return result.Artifacts
	}
	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("artifact count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path || first[i].Checksum != second[i].Checksum {
			t.Fatalf("artifact %s differs between builds", first[i].Path)
		}
	}
}

func TestBuildSitemap(t *testing.T) {
	doc := BuildSitemap("https://blog.example.com/", []*posts.Record{
		{Slug: "b", CanonicalPath: "/post/b", Published: true},
		{Slug: "hidden", CanonicalPath: "/post/hidden"},
		{Slug: "a", CanonicalPath: "/tech/a", Published: true},
	})

	if strings.Contains(doc, "/post/hidden") {
		t.Fatal("sitemap must skip unpublished posts")
	}
	home := strings.Index(doc, "<loc>https://blog.example.com/</loc>")
	b := strings.Index(doc, "<loc>https://blog.example.com/post/b</loc>")
	a := strings.Index(doc, "<loc>https://blog.example.com/tech/a</loc>")
	if home < 0 || b < 0 || a < 0 || !(home < b && b < a) {
		t.Fatalf("unexpected sitemap ordering:\n%s", doc)
	}
}

func TestMemoryWriterRejectsEmptyRequests(t *testing.T) {
	writer := NewMemoryWriter()
	if err := writer.WriteFile(context.Background(), WriteFileRequest{Path: "x"}); err == nil {
		t.Fatal("expected error without content")
	}
	if err := writer.WriteFile(context.Background(), WriteFileRequest{Path: " ", Content: strings.NewReader("x")}); err == nil {
		t.Fatal("expected error without path")
	}
}

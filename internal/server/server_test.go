package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/source"
)

func buildSnapshot(t *testing.T) *generator.BuildResult {
	t.Helper()
	fsys := fstest.MapFS{
		"posts/x.md":     {Data: []byte("---\ntitle: X\nauthor: A\ndate: 2024-01-01\npublished: true\ncategories: tech\nredirect_from: /old/path\n---\nBody of x.\n")},
		"posts/draft.md": {Data: []byte("---\ntitle: Draft\nauthor: A\ndate: 2024-02-01\n---\nDraft body.\n")},
	}
	svc := generator.NewService(generator.Config{BaseURL: "https://blog.example.com"}, generator.Dependencies{
		Source: source.NewDirectory(fsys, source.DirectoryOptions{Root: "posts"}),
	})
	result, err := svc.Build(context.Background(), generator.BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return result
}

func serve(t *testing.T, srv *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestServerBeforeFirstBuild(t *testing.T) {
	srv := New()

	if rr := serve(t, srv, http.MethodGet, "/feed.xml", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	rr := serve(t, srv, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "starting") {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}

func TestServerServesArtifacts(t *testing.T) {
	srv := New()
	srv.Update(buildSnapshot(t))

	rr := serve(t, srv, http.MethodGet, "/feed.xml", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/atom+xml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "https://blog.example.com/tech/x") {
		t.Fatalf("feed missing post x:\n%s", rr.Body.String())
	}

	etag := rr.Header().Get("ETag")
	cached := serve(t, srv, http.MethodGet, "/feed.xml", http.Header{"If-None-Match": []string{etag}})
	if cached.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for matching etag, got %d", cached.Code)
	}

	manifest := serve(t, srv, http.MethodGet, "/posts/posts.json", nil)
	var slugs []string
	if err := json.Unmarshal(manifest.Body.Bytes(), &slugs); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "x" {
		t.Fatalf("unexpected manifest %v", slugs)
	}
}

func TestServerRedirectsLegacyPaths(t *testing.T) {
	srv := New()
	srv.Update(buildSnapshot(t))

	for _, target := range []string{"/old/path", "/old/path/"} {
		rr := serve(t, srv, http.MethodGet, target, nil)
		if rr.Code != http.StatusMovedPermanently {
			t.Fatalf("expected 301 for %s, got %d", target, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/tech/x" {
			t.Fatalf("expected redirect to /tech/x, got %q", loc)
		}
	}

	if rr := serve(t, srv, http.MethodGet, "/unknown", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestServerPostPreviewIncludesDrafts(t *testing.T) {
	srv := New()
	srv.Update(buildSnapshot(t))

	rr := serve(t, srv, http.MethodGet, "/api/posts/draft", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var record posts.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.Slug != "draft" || record.Published {
		t.Fatalf("unexpected record %+v", record)
	}

	if rr := serve(t, srv, http.MethodGet, "/api/posts/nope", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestServerIgnoresNilUpdate(t *testing.T) {
	srv := New()
	srv.Update(buildSnapshot(t))
	srv.Update(nil)

	if rr := serve(t, srv, http.MethodGet, "/feed.xml", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected previous snapshot to remain, got %d", rr.Code)
	}
}

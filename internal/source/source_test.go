package source

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"testing"
	"testing/fstest"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/hello.md":          {Data: []byte("---\ntitle: Hello\n---\nbody")},
		"posts/notes.txt":         {Data: []byte("ignored")},
		"posts/2024/nested.md":    {Data: []byte("nested")},
		"posts/.drafts/hidden.md": {Data: []byte("hidden")},
		"posts/posts.json":        {Data: []byte(`["hello", "missing", "2024/nested.md", ""]`)},
		"other/outside.md":        {Data: []byte("outside")},
	}
}

func TestDirectoryListFlat(t *testing.T) {
	dir := NewDirectory(contentFS(), DirectoryOptions{Root: "posts"})

	names, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(names, []string{"posts/hello.md"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestDirectoryListRecursive(t *testing.T) {
	dir := NewDirectory(contentFS(), DirectoryOptions{Root: "/posts/", Recursive: true})

	names, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"posts/2024/nested.md", "posts/hello.md"}
	if !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestDirectoryPattern(t *testing.T) {
	dir := NewDirectory(contentFS(), DirectoryOptions{Root: "posts", Pattern: "*.txt"})

	names, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(names, []string{"posts/notes.txt"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestDirectoryMissingRoot(t *testing.T) {
	_, err := NewDirectory(contentFS(), DirectoryOptions{Root: "nope"}).List(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestManifestList(t *testing.T) {
	m := NewManifest(contentFS(), "")

	names, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"posts/hello.md", "posts/missing.md", "posts/2024/nested.md"}
	if !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestManifestInvalidJSON(t *testing.T) {
	fsys := fstest.MapFS{"posts/posts.json": {Data: []byte(`{"not": "a list"}`)}}
	if _, err := NewManifest(fsys, DefaultManifestPath).List(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestReadAllCollectsReadErrors(t *testing.T) {
	files, failures, err := ReadAll(context.Background(), NewManifest(contentFS(), DefaultManifestPath))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(files) != 2 || files[0].Filename != "posts/hello.md" || files[1].Text != "nested" {
		t.Fatalf("unexpected files %+v", files)
	}
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %v", failures)
	}
	var readErr *ReadError
	if !errors.As(failures[0], &readErr) || readErr.Name != "posts/missing.md" {
		t.Fatalf("unexpected failure %v", failures[0])
	}
	if !errors.Is(failures[0], fs.ErrNotExist) {
		t.Fatal("expected read error to unwrap to fs.ErrNotExist")
	}
}

func TestReadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := ReadAll(ctx, NewDirectory(contentFS(), DirectoryOptions{})); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

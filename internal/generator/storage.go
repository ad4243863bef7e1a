package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// WriteCategory labels an artifact for logging and metadata.
type WriteCategory string

const (
	CategoryFeed        WriteCategory = "feed"
	CategoryManifest    WriteCategory = "manifest"
	CategoryRedirects   WriteCategory = "redirects"
	CategorySitemap     WriteCategory = "sitemap"
	CategoryReadingList WriteCategory = "reading_list"
)

// WriteFileRequest describes a file write routed through a Writer.
type WriteFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    WriteCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// Writer stores generated artifacts. Paths are slash separated and relative
// to the writer's root.
type Writer interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteFileRequest) error
}

// FSWriter writes artifacts into an afero filesystem. Artifact paths are
// resolved against the filesystem root.
type FSWriter struct {
	fs afero.Fs
}

var _ Writer = (*FSWriter)(nil)

// NewFSWriter wraps fsys.
func NewFSWriter(fsys afero.Fs) *FSWriter {
	return &FSWriter{fs: fsys}
}

// NewDirWriter writes below dir on the local disk.
func NewDirWriter(dir string) *FSWriter {
	return NewFSWriter(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewMemoryWriter keeps artifacts in memory. Used for previews and tests.
func NewMemoryWriter() *FSWriter {
	return NewFSWriter(afero.NewMemMapFs())
}

// Fs exposes the underlying filesystem.
func (w *FSWriter) Fs() afero.Fs {
	return w.fs
}

func (w *FSWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir = cleanArtifactPath(dir)
	if dir == "" || dir == "." {
		return nil
	}
	return w.fs.MkdirAll("/"+dir, 0o755)
}

func (w *FSWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	target := cleanArtifactPath(req.Path)
	if target == "" || target == "." {
		return errors.New("generator: write requires path")
	}
	file, err := w.fs.OpenFile("/"+target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadFile returns the content stored at p.
func (w *FSWriter) ReadFile(p string) ([]byte, error) {
	return afero.ReadFile(w.fs, "/"+cleanArtifactPath(p))
}

// Files lists every stored file, sorted.
func (w *FSWriter) Files() ([]string, error) {
	var files []string
	err := afero.Walk(w.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, cleanArtifactPath(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func cleanArtifactPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, WriteFileRequest) error { return nil }

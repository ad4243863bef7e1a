package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-blog/internal/posts"
)

// DefaultManifestPath is where the published site keeps its post index.
const DefaultManifestPath = "posts/posts.json"

// Manifest enumerates posts from a JSON list of base names stored next to
// the post files, e.g. posts/posts.json listing "hello" for posts/hello.md.
type Manifest struct {
	fsys      fs.FS
	path      string
	extension string
}

var _ Source = (*Manifest)(nil)

// NewManifest constructs a Manifest reading manifestPath from fsys.
func NewManifest(fsys fs.FS, manifestPath string) *Manifest {
	manifestPath = strings.Trim(strings.TrimSpace(manifestPath), "/")
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	return &Manifest{
		fsys:      fsys,
		path:      manifestPath,
		extension: ".md",
	}
}

// List returns the post paths in manifest order.
func (m *Manifest) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(m.fsys, m.path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", m.path, err)
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", m.path, err)
	}

	dir := path.Dir(m.path)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.Trim(strings.TrimSpace(entry), "/")
		if entry == "" {
			continue
		}
		if path.Ext(entry) == "" {
			entry += m.extension
		}
		names = append(names, path.Join(dir, entry))
	}
	return names, nil
}

// Read loads one post listed by the manifest.
func (m *Manifest) Read(ctx context.Context, name string) (posts.RawFile, error) {
	if err := ctx.Err(); err != nil {
		return posts.RawFile{}, err
	}
	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return posts.RawFile{}, err
	}
	return posts.RawFile{Filename: name, Text: string(data)}, nil
}

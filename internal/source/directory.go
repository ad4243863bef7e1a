package source

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-blog/internal/posts"
)

const defaultPattern = "*.md"

// DirectoryOptions configures how post files are discovered.
type DirectoryOptions struct {
	// Root is the directory inside the filesystem holding posts. Defaults to ".".
	Root string
	// Pattern limits discovered files to those matching the glob. Defaults to "*.md".
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Directory discovers posts by walking a filesystem.
type Directory struct {
	fsys      fs.FS
	root      string
	pattern   string
	recursive bool
}

var _ Source = (*Directory)(nil)

// NewDirectory constructs a Directory over fsys.
func NewDirectory(fsys fs.FS, opts DirectoryOptions) *Directory {
	pattern := strings.TrimSpace(opts.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}
	root := path.Clean(strings.Trim(strings.TrimSpace(opts.Root), "/"))
	if root == "" {
		root = "."
	}
	return &Directory{
		fsys:      fsys,
		root:      root,
		pattern:   pattern,
		recursive: opts.Recursive,
	}
}

// List returns matching file paths relative to the filesystem, sorted.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	walkErr := fs.WalkDir(d.fsys, d.root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if p != d.root && (!d.recursive || strings.HasPrefix(entry.Name(), ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.matches(p) {
			names = append(names, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("list posts in %s: %w", d.root, walkErr)
	}

	slices.Sort(names)
	return names, nil
}

// Read loads a file previously returned by List.
func (d *Directory) Read(ctx context.Context, name string) (posts.RawFile, error) {
	if err := ctx.Err(); err != nil {
		return posts.RawFile{}, err
	}
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return posts.RawFile{}, err
	}
	return posts.RawFile{Filename: name, Text: string(data)}, nil
}

func (d *Directory) matches(p string) bool {
	pattern := d.pattern
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := path.Base(p)
	if strings.Contains(pattern, "/") {
		target = p
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

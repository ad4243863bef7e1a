// Package source enumerates and reads raw post files. Sources only move
// bytes; parsing belongs to the posts loader.
package source

import (
	"context"
	"fmt"

	"github.com/goliatone/go-blog/internal/posts"
)

// Source lists post names and reads their raw text.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) (posts.RawFile, error)
}

// ReadError reports a post that was listed but could not be read.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadAll lists src and reads every entry. Per-file read failures are
// collected as *ReadError values; a listing failure or a cancelled context
// aborts the whole call.
func ReadAll(ctx context.Context, src Source) ([]posts.RawFile, []error, error) {
	names, err := src.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	files := make([]posts.RawFile, 0, len(names))
	var failures []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		raw, err := src.Read(ctx, name)
		if err != nil {
			failures = append(failures, &ReadError{Name: name, Err: err})
			continue
		}
		files = append(files, raw)
	}
	return files, failures, nil
}

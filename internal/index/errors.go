package index

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateSlug matches any DuplicateSlugError via errors.Is.
	ErrDuplicateSlug = errors.New("index: duplicate slug")
	// ErrConflictingRedirect matches any ConflictingRedirectError via errors.Is.
	ErrConflictingRedirect = errors.New("index: conflicting redirect")
	// ErrDuplicatePath matches any DuplicatePathError via errors.Is.
	ErrDuplicatePath = errors.New("index: duplicate canonical path")
)

// DuplicateSlugError reports two or more records sharing a slug.
type DuplicateSlugError struct {
	Slug  string
	Files []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q in %s", e.Slug, strings.Join(e.Files, ", "))
}

func (e *DuplicateSlugError) Unwrap() error {
	return ErrDuplicateSlug
}

// DuplicatePathError reports records with different slugs that resolve to
// the same canonical path, e.g. slug "tech/x" and slug "x" under the
// categories post and tech.
type DuplicatePathError struct {
	Path  string
	Slugs []string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("canonical path %q shared by %s", e.Path, strings.Join(e.Slugs, ", "))
}

func (e *DuplicatePathError) Unwrap() error {
	return ErrDuplicatePath
}

// ConflictingRedirectError reports a legacy path claimed by more than one
// record, or a legacy path that equals the canonical path of a post.
type ConflictingRedirectError struct {
	From  string
	Slugs []string
}

func (e *ConflictingRedirectError) Error() string {
	return fmt.Sprintf("redirect %q claimed by %s", e.From, strings.Join(e.Slugs, ", "))
}

func (e *ConflictingRedirectError) Unwrap() error {
	return ErrConflictingRedirect
}

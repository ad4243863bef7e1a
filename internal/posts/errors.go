package posts

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrMissingField matches any MissingFieldError via errors.Is.
	ErrMissingField = errors.New("posts: missing required field")
	// ErrParse matches any ParseError via errors.Is.
	ErrParse = errors.New("posts: parse failure")
)

// MissingFieldError reports required front-matter fields absent from a file.
type MissingFieldError struct {
	Filename string
	Fields   []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field(s): %s", e.Filename, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// Has reports whether field is among the missing ones.
func (e *MissingFieldError) Has(field string) bool {
	return slices.Contains(e.Fields, field)
}

// ParseError reports a malformed front-matter block or an unreadable field
// value. Field is empty when the block itself could not be split.
type ParseError struct {
	Filename string
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: malformed front matter: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("%s: invalid %s: %v", e.Filename, e.Field, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

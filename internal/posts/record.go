package posts

import (
	"cmp"
	"time"
)

// RawFile is one unparsed post as handed over by a content source.
type RawFile struct {
	Filename string
	Text     string
}

// Record is the normalized form of a post. Records are built by Loader and
// are not modified afterwards by any stage of the pipeline.
type Record struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Date          time.Time `json:"date"`
	Categories    []string  `json:"categories,omitempty"`
	Published     bool      `json:"published"`
	RedirectFrom  []string  `json:"redirect_from,omitempty"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	CanonicalPath string    `json:"canonical_path"`
	SourcePath    string    `json:"source_path,omitempty"`
}

// Complete reports whether the required fields carry values.
func (r *Record) Complete() bool {
	return r != nil && r.Title != "" && r.Author != "" && !r.Date.IsZero()
}

// MissingFields lists the required fields that are empty, in schema order.
func (r *Record) MissingFields() []string {
	if r == nil {
		return requiredFields()
	}
	var missing []string
	if r.Title == "" {
		missing = append(missing, FieldTitle)
	}
	if r.Date.IsZero() {
		missing = append(missing, FieldDate)
	}
	if r.Author == "" {
		missing = append(missing, FieldAuthor)
	}
	return missing
}

// NewestFirst orders records by date descending and breaks ties with the
// slug in ascending order. It is the display order for listings and feeds.
func NewestFirst(a, b *Record) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Slug, b.Slug)
}

// Package readinglist loads the curated book list published next to the blog.
package readinglist

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Difficulty bounds for a book.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Book is one entry of the reading list.
type Book struct {
	Name       string `yaml:"name" json:"name"`
	Author     string `yaml:"author" json:"author"`
	Difficulty int    `yaml:"difficulty" json:"difficulty"`
	Notes      string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Validate checks required fields and the difficulty range.
func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required),
		validation.Field(&b.Author, validation.Required),
		validation.Field(&b.Difficulty, validation.Required, validation.Min(MinDifficulty), validation.Max(MaxDifficulty)),
	)
}

// List is the ordered reading list document.
type List struct {
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Intro string `yaml:"intro,omitempty" json:"intro,omitempty"`
	Books []Book `yaml:"books" json:"books"`
}

// Validate checks every book and reports the first failing position.
func (l List) Validate() error {
	for i, book := range l.Books {
		if err := book.Validate(); err != nil {
			return fmt.Errorf("book %d (%s): %w", i+1, strings.TrimSpace(book.Name), err)
		}
	}
	return nil
}

// Parse decodes a YAML reading list. A bare sequence of books is accepted as
// well as the full document form.
func Parse(data []byte) (*List, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("readinglist: decode: %w", err)
	}

	list := &List{}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&list.Books); err != nil {
			return nil, fmt.Errorf("readinglist: decode books: %w", err)
		}
	} else if len(node.Content) > 0 {
		if err := node.Content[0].Decode(list); err != nil {
			return nil, fmt.Errorf("readinglist: decode: %w", err)
		}
	}

	if err := list.Validate(); err != nil {
		return nil, fmt.Errorf("readinglist: %w", err)
	}
	return list, nil
}

// Load reads and parses name from fsys.
func Load(fsys fs.FS, name string) (*List, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("readinglist: read %s: %w", name, err)
	}
	return Parse(data)
}

// JSON renders the list for the published site.
func (l *List) JSON() ([]byte, error) {
	books := l.Books
	if books == nil {
		books = []Book{}
	}
	out := List{Title: l.Title, Intro: l.Intro, Books: books}
	return json.MarshalIndent(out, "", "  ")
}

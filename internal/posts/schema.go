package posts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/karlseguin/typed"
)

// Recognized front-matter keys.
const (
	FieldTitle        = "title"
	FieldDate         = "date"
	FieldAuthor       = "author"
	FieldCategories   = "categories"
	FieldPublished    = "published"
	FieldRedirectFrom = "redirect_from"
	FieldSlug         = "slug"
)

type fieldDef struct {
	Name     string
	Aliases  []string
	Required bool
}

// schema declares every key the loader reads. Keys outside it are ignored.
var schema = []fieldDef{
	{Name: FieldTitle, Required: true},
	{Name: FieldDate, Required: true},
	{Name: FieldAuthor, Required: true},
	{Name: FieldCategories, Aliases: []string{"category"}},
	{Name: FieldPublished},
	{Name: FieldRedirectFrom, Aliases: []string{"redirectFrom"}},
	{Name: FieldSlug, Aliases: []string{"uri"}},
}

func requiredFields() []string {
	var out []string
	for _, f := range schema {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// frontMatter wraps decoded metadata with schema-aware lookups.
type frontMatter struct {
	values typed.Typed
}

func newFrontMatter(meta map[string]any) frontMatter {
	if meta == nil {
		meta = map[string]any{}
	}
	return frontMatter{values: typed.New(meta)}
}

func lookupField(name string) fieldDef {
	for _, f := range schema {
		if f.Name == name {
			return f
		}
	}
	return fieldDef{Name: name}
}

// raw returns the first non-nil value stored under the field or its aliases.
func (fm frontMatter) raw(name string) (any, bool) {
	def := lookupField(name)
	for _, key := range append([]string{def.Name}, def.Aliases...) {
		if value, ok := fm.values[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// text returns a trimmed scalar. Numbers and booleans are accepted and
// formatted, since YAML decodes `title: 2024` as an integer.
func (fm frontMatter) text(name string) (string, error) {
	def := lookupField(name)
	for _, key := range append([]string{def.Name}, def.Aliases...) {
		if s, ok := fm.values.StringIf(key); ok {
			return strings.TrimSpace(s), nil
		}
	}
	value, ok := fm.raw(name)
	if !ok {
		return "", nil
	}
	switch v := value.(type) {
	case int, int64, uint64, float64, bool:
		return strings.TrimSpace(fmt.Sprint(v)), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", value)
	}
}

func (fm frontMatter) date() (time.Time, error) {
	value, ok := fm.raw(FieldDate)
	if !ok {
		return time.Time{}, nil
	}
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, nil
		}
		parsed, err := dateparse.ParseStrict(trimmed)
		if err != nil {
			return time.Time{}, err
		}
		return parsed.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", value, value)
	}
}

func (fm frontMatter) published() (bool, error) {
	if b, ok := fm.values.BoolIf(FieldPublished); ok {
		return b, nil
	}
	value, ok := fm.raw(FieldPublished)
	if !ok {
		return false, nil
	}
	s, isString := value.(string)
	if !isString {
		return false, fmt.Errorf("expected a boolean, got %T", value)
	}
	if strings.TrimSpace(s) == "" {
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// categories accepts a list or a string delimited by commas or slashes.
func (fm frontMatter) categories() ([]string, error) {
	value, ok := fm.raw(FieldCategories)
	if !ok {
		return nil, nil
	}
	items, err := stringList(value)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, item := range items {
		for _, segment := range strings.FieldsFunc(item, isCategoryDelimiter) {
			if trimmed := strings.TrimSpace(segment); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out, nil
}

func isCategoryDelimiter(r rune) bool {
	return r == ',' || r == '/'
}

// redirects returns legacy paths with a leading slash, de-duplicated in
// first-seen order.
func (fm frontMatter) redirects() ([]string, error) {
	value, ok := fm.raw(FieldRedirectFrom)
	if !ok {
		return nil, nil
	}
	items, err := stringList(value)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := map[string]struct{}{}
	for _, item := range items {
		path := normalizePath(item)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out, nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case int, int64, float64:
				out = append(out, fmt.Sprint(s))
			default:
				return nil, fmt.Errorf("unsupported list element %v (%T)", item, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a string or list, got %T", value)
	}
}

func normalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return trimmed
}

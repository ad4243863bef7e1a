package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-blog/internal/posts"
)

// RedirectEntry maps a legacy path to the canonical path of a post.
type RedirectEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Index holds the views derived from one set of records: the published
// listing, the slug lookup and the redirect table. It is read-only.
type Index struct {
	sorted    []*posts.Record
	bySlug    map[string]*posts.Record
	redirects []RedirectEntry
}

// Build derives an Index from records in a single pass. Duplicate slugs,
// shared canonical paths and conflicting redirects are collected and
// returned together; when any is found no Index is returned.
func Build(records []*posts.Record) (*Index, error) {
	bySlug := make(map[string]*posts.Record, len(records))
	slugFiles := map[string][]string{}
	canonical := map[string]string{}
	pathSlugs := map[string][]string{}
	claims := map[string][]string{}
	var claimOrder []string
	var published []*posts.Record

	for _, record := range records {
		if record == nil {
			continue
		}
		slugFiles[record.Slug] = append(slugFiles[record.Slug], sourceName(record))
		if _, exists := bySlug[record.Slug]; !exists {
			bySlug[record.Slug] = record
		}
		if record.Published {
			published = append(published, record)
		}
		if _, exists := canonical[record.CanonicalPath]; !exists {
			canonical[record.CanonicalPath] = record.Slug
		}
		if !slices.Contains(pathSlugs[record.CanonicalPath], record.Slug) {
			pathSlugs[record.CanonicalPath] = append(pathSlugs[record.CanonicalPath], record.Slug)
		}
		for _, from := range record.RedirectFrom {
			if _, seen := claims[from]; !seen {
				claimOrder = append(claimOrder, from)
			}
			if !slices.Contains(claims[from], record.Slug) {
				claims[from] = append(claims[from], record.Slug)
			}
		}
	}

	var errs []error
	for _, slug := range slices.Sorted(maps.Keys(slugFiles)) {
		if files := slugFiles[slug]; len(files) > 1 {
			errs = append(errs, &DuplicateSlugError{Slug: slug, Files: files})
		}
	}
	for _, p := range slices.Sorted(maps.Keys(pathSlugs)) {
		if slugs := pathSlugs[p]; len(slugs) > 1 {
			errs = append(errs, &DuplicatePathError{Path: p, Slugs: slugs})
		}
	}

	redirects := make([]RedirectEntry, 0, len(claimOrder))
	for _, from := range claimOrder {
		owners := claims[from]
		if live, ok := canonical[from]; ok {
			slugs := owners
			if !slices.Contains(owners, live) {
				slugs = append([]string{live}, owners...)
			}
			errs = append(errs, &ConflictingRedirectError{From: from, Slugs: slugs})
			continue
		}
		if len(owners) > 1 {
			errs = append(errs, &ConflictingRedirectError{From: from, Slugs: owners})
			continue
		}
		redirects = append(redirects, RedirectEntry{From: from, To: bySlug[owners[0]].CanonicalPath})
	}
	if len(errs) > 0 {
		if len(errs) == 1 {
			return nil, errs[0]
		}
		return nil, errors.Join(errs...)
	}

	slices.SortFunc(published, posts.NewestFirst)
	slices.SortFunc(redirects, func(a, b RedirectEntry) int {
		return strings.Compare(a.From, b.From)
	})

	return &Index{
		sorted:    published,
		bySlug:    bySlug,
		redirects: redirects,
	}, nil
}

func sourceName(record *posts.Record) string {
	if record.SourcePath != "" {
		return record.SourcePath
	}
	return record.Slug
}

// Sorted yields the published records newest first, slug ascending on ties.
// Each call to the returned sequence starts from the beginning.
func (i *Index) Sorted() iter.Seq[*posts.Record] {
	return func(yield func(*posts.Record) bool) {
		for _, record := range i.sorted {
			if !yield(record) {
				return
			}
		}
	}
}

// SortedSlice returns a copy of the published listing.
func (i *Index) SortedSlice() []*posts.Record {
	return slices.Clone(i.sorted)
}

// Lookup returns the record for slug, published or not.
func (i *Index) Lookup(slug string) (*posts.Record, bool) {
	record, ok := i.bySlug[slug]
	return record, ok
}

// Len reports how many records the slug lookup covers.
func (i *Index) Len() int {
	return len(i.bySlug)
}

// Slugs returns every slug in ascending order.
func (i *Index) Slugs() []string {
	return slices.Sorted(maps.Keys(i.bySlug))
}

// Redirects returns the redirect table ordered by legacy path.
func (i *Index) Redirects() []RedirectEntry {
	return slices.Clone(i.redirects)
}

// Redirect resolves a legacy path to its canonical path.
func (i *Index) Redirect(from string) (string, bool) {
	pos, found := slices.BinarySearchFunc(i.redirects, from, func(entry RedirectEntry, target string) int {
		return strings.Compare(entry.From, target)
	})
	if !found {
		return "", false
	}
	return i.redirects[pos].To, true
}

// PostsManifest lists the published slugs in display order, the shape served
// as posts/posts.json.
func (i *Index) PostsManifest() ([]byte, error) {
	slugs := make([]string, 0, len(i.sorted))
	for record := range i.Sorted() {
		slugs = append(slugs, record.Slug)
	}
	return marshalIndented(slugs)
}

// RedirectsManifest renders the redirect table as a [{from,to}] document.
func (i *Index) RedirectsManifest() ([]byte, error) {
	return marshalIndented(i.redirects)
}

type snapshot struct {
	Sorted    []string        `json:"sorted"`
	Posts     []*posts.Record `json:"posts"`
	Redirects []RedirectEntry `json:"redirects"`
}

// MarshalJSON renders every derived view. Equal inputs give identical bytes.
func (i *Index) MarshalJSON() ([]byte, error) {
	snap := snapshot{
		Sorted:    make([]string, 0, len(i.sorted)),
		Posts:     make([]*posts.Record, 0, len(i.bySlug)),
		Redirects: i.redirects,
	}
	for record := range i.Sorted() {
		snap.Sorted = append(snap.Sorted, record.Slug)
	}
	for _, slug := range i.Slugs() {
		snap.Posts = append(snap.Posts, i.bySlug[slug])
	}
	return json.Marshal(snap)
}

func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

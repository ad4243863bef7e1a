package generator

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

// BuildSitemap lists the home page and every published post. Entries are
// sorted by location so the document is stable between builds.
func BuildSitemap(baseURL string, records []*posts.Record) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}

	entries := []sitemapEntry{{Location: base + "/"}}
	seen := map[string]struct{}{base + "/": {}}
	var newest time.Time
	for _, record := range records {
		if record == nil || !record.Published {
			continue
		}
		route := strings.TrimSpace(record.CanonicalPath)
		if !strings.HasPrefix(route, "/") {
			route = "/" + route
		}
		location := base + route
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		entries = append(entries, sitemapEntry{
			Location: location,
			LastMod:  record.Date,
		})
		if record.Date.After(newest) {
			newest = record.Date
		}
	}
	entries[0].LastMod = newest

	slices.SortFunc(entries, func(a, b sitemapEntry) int {
		return strings.Compare(a.Location, b.Location)
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeLocation(entry.Location)))
		if !entry.LastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

func escapeLocation(location string) string {
	var out strings.Builder
	_ = xml.EscapeText(&out, []byte(location))
	return out.String()
}

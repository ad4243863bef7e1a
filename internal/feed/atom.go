package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/goliatone/go-blog/internal/identity"
)

// ContentType is the media type of the rendered document.
const ContentType = "application/atom+xml"

func (g *Generator) render(result *Result, caser cases.Caser) string {
	baseLink := baseURLWithFallback(g.cfg.BaseURL)
	feedPath := strings.TrimSpace(g.cfg.FeedPath)
	if feedPath == "" {
		feedPath = defaultFeedPath
	}
	lang := strings.TrimSpace(g.cfg.Language)
	if lang == "" {
		lang = defaultLanguage
	}
	title := strings.TrimSpace(g.cfg.Title)
	if title == "" {
		title = defaultTitle
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXMLAttr(lang)))
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(identity.URN(identity.FeedUUID(baseLink)))))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(title)))
	if subtitle := strings.TrimSpace(g.cfg.Subtitle); subtitle != "" {
		builder.WriteString(fmt.Sprintf("  <subtitle>%s</subtitle>\n", escapeXML(subtitle)))
	}
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", formatTime(result.Updated)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(baseLink+"/")))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(absoluteURL(baseLink, feedPath))))
	if author := strings.TrimSpace(g.cfg.AuthorName); author != "" {
		builder.WriteString(fmt.Sprintf("  <author>\n    <name>%s</name>\n  </author>\n", escapeXML(author)))
	}
	builder.WriteString(fmt.Sprintf("  <generator>%s</generator>\n", generatorName))

	for _, item := range result.Items {
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(item.ID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(item.CanonicalURL)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", formatTime(item.Date)))
		builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", formatTime(item.Date)))
		builder.WriteString(fmt.Sprintf("    <author>\n      <name>%s</name>\n    </author>\n", escapeXML(item.Author)))
		for _, category := range item.Categories {
			builder.WriteString(fmt.Sprintf(`    <category term="%s" label="%s" />`+"\n",
				escapeXMLAttr(category), escapeXMLAttr(caser.String(category))))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString(fmt.Sprintf(`    <content type="html">%s</content>`+"\n", escapeXML(item.HTML)))
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}

// escapeXML escapes markup and replaces code points XML 1.0 does not allow
// with U+FFFD. The result is safe in text and attribute values.
func escapeXML(value string) string {
	var out strings.Builder
	_ = xml.EscapeText(&out, []byte(value))
	return out.String()
}

func escapeXMLAttr(value string) string {
	return escapeXML(value)
}

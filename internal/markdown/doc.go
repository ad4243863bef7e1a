// Package markdown splits post sources into front matter and body, renders
// Markdown bodies to HTML with goldmark, and derives plain-text excerpts.
package markdown

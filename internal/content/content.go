// Package content derives display metadata from blog post HTML.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// readingSpeed is words per minute, the usual figure for web copy
const readingSpeed = 200

const excerptMaxLen = 300

// PlainText strips markup from an HTML fragment and collapses whitespace
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Not parseable as HTML, treat it as already-plain text
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// ReadingTime estimates minutes to read an HTML fragment, minimum 1
func ReadingTime(html string) int {
	words := len(strings.Fields(PlainText(html)))
	if words == 0 {
		return 0
	}
	minutes := (words + readingSpeed - 1) / readingSpeed
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Excerpt returns the leading text of an HTML fragment, cut at a word
// boundary and capped at 300 characters. Prefers the first paragraph when
// one exists.
func Excerpt(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		if p := doc.Find("p").First(); p.Length() > 0 {
			if text := strings.Join(strings.Fields(p.Text()), " "); text != "" {
				return truncateWords(text, excerptMaxLen)
			}
		}
	}
	return truncateWords(PlainText(html), excerptMaxLen)
}

func truncateWords(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

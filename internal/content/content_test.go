package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainTextStripsMarkup(t *testing.T) {
	html := `<h1>Title</h1><p>Hello   <strong>world</strong></p><script>alert(1)</script>`
	assert.Equal(t, "Title Hello world", PlainText(html))
}

func TestPlainTextPassesThroughPlainInput(t *testing.T) {
	assert.Equal(t, "just some words", PlainText("just   some\nwords"))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("<p>a few words only</p>"))

	// 450 words at 200 wpm rounds up to 3 minutes
	long := "<p>" + strings.Repeat("word ", 450) + "</p>"
	assert.Equal(t, 3, ReadingTime(long))
}

func TestExcerptPrefersFirstParagraph(t *testing.T) {
	html := `<h1>Heading</h1><p>First paragraph here.</p><p>Second paragraph.</p>`
	assert.Equal(t, "First paragraph here.", Excerpt(html))
}

func TestExcerptTruncatesAtWordBoundary(t *testing.T) {
	html := "<p>" + strings.Repeat("farmland ", 60) + "</p>"
	excerpt := Excerpt(html)

	assert.LessOrEqual(t, len(excerpt), 305)
	assert.True(t, strings.HasSuffix(excerpt, "…"))
	// No broken word before the ellipsis
	assert.True(t, strings.HasSuffix(strings.TrimSuffix(excerpt, "…"), "farmland"))
}

func TestExcerptShortContentUntouched(t *testing.T) {
	assert.Equal(t, "Short post.", Excerpt("<p>Short post.</p>"))
}

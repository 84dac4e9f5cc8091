package poststore

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const (
	snippetLen    = 120
	snippetMarker = "..."
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "b", "strong", "i", "em", "ul", "ol", "li", "h1", "h2", "h3", "blockquote")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	// Dropped together with everything inside them; other unknown tags are
	// unwrapped and keep their text.
	p.SkipElementsContent("script", "style", "iframe", "object", "embed", "noscript",
		"template", "svg", "math", "textarea", "select")
	return p
}

// Sanitize strips markup down to the tags, attributes and link schemes a
// post body may contain. Sanitizing already sanitized markup is a no-op.
func Sanitize(markup string) string {
	return policy.Sanitize(markup)
}

// plainText returns the text content of a markup fragment.
func plainText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	return doc.Text()
}

func hasText(markup string) bool {
	return strings.TrimSpace(plainText(markup)) != ""
}

// Snippet caps text at 120 characters, marking truncation with "...".
func Snippet(text string) string {
	r := []rune(text)
	if len(r) <= snippetLen {
		return text
	}
	return string(r[:snippetLen]) + snippetMarker
}

// parseContent extracts the heading and the snippet from a content file.
func parseContent(raw string) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", raw
	}
	title = strings.TrimSpace(doc.Find("h1, h2, h3, h4, h5, h6").First().Text())
	return title, doc.Text()
}

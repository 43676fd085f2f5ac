// Package extractor reads SEO signals from fetched HTML documents.
package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

const (
	h1Selector          = "h1"
	titleSelector       = "title"
	descriptionSelector = `meta[name="description"]`
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of the first h1 and title elements and the content
// of the first description meta tag. Missing elements are left nil.
func (e *Extractor) Extract(body []byte) entity.SEO {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return entity.SEO{}
	}

	return entity.SEO{
		H1:          firstText(doc, h1Selector),
		Title:       firstText(doc, titleSelector),
		Description: firstDescription(doc),
	}
}

func firstText(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}

	text := strings.TrimSpace(sel.Text())
	return &text
}

func firstDescription(doc *goquery.Document) *string {
	content, ok := doc.Find(descriptionSelector).First().Attr("content")
	if !ok {
		return nil
	}

	content = strings.TrimSpace(content)
	return &content
}

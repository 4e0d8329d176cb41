// Package page turns a rendered bill page into the inputs the parser
// consumes: the page title and the ordered sequence of block-level elements.
// The parliamentary sites publish content almost exclusively in <p> blocks,
// so the block stream is every paragraph's outer HTML in document order,
// inline markup included, since the parser needs the bold/italic cues intact.
package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page holds the extracted inputs for one document.
type Page struct {
	// Title is the trimmed text of the page's <title>.
	Title string

	// Blocks is the outer HTML of every <p> element in document order.
	Blocks []string
}

// Parse reads an HTML document and extracts its title and block elements.
// The underlying parser recovers from malformed markup rather than failing,
// which the legacy pages require.
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	page := &Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		block, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		page.Blocks = append(page.Blocks, block)
	})

	return page, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// ErrNoAbstract is returned when an abstract page has no abstract text.
var ErrNoAbstract = errors.New("no abstract found on page")

// abstractPageBase is the SSRN abstract page endpoint. Declared as a var so
// tests can substitute an httptest server.
var abstractPageBase = "https://papers.ssrn.com/sol3/papers.cfm"

// ParseAbstractPage extracts the abstract from an SSRN abstract page: the
// non-empty paragraphs of div.abstract-text, whitespace folded, joined by
// a blank line.
func ParseAbstractPage(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing abstract HTML: %w", err)
	}

	var paragraphs []string
	doc.Find("div.abstract-text").First().Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.Join(strings.Fields(p.Text()), " "); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return "", ErrNoAbstract
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// Identify returns the abstract ID and page URL for a paper. The ID is the
// abstract_id query parameter of the paper URL, falling back to the
// listing row ID. A paper without a URL gets the canonical abstract page
// URL. Both are empty when the paper carries neither.
func Identify(p types.Paper) (id, pageURL string) {
	pageURL = strings.TrimSpace(p.URL)
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			id = u.Query().Get("abstract_id")
		}
	}
	if id == "" {
		id = strings.TrimSpace(p.ID)
	}
	if pageURL == "" && id != "" {
		pageURL = PageURL(id)
	}
	return id, pageURL
}

// PageURL returns the abstract page URL for an abstract ID.
func PageURL(id string) string {
	return abstractPageBase + "?abstract_id=" + url.QueryEscape(id)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// ErrNoRows is returned when a listing page contains no paper rows.
var ErrNoRows = errors.New("no paper rows on listing page")

// Page holds the entries parsed from one listing page.
type Page struct {
	// Papers lists the valid rows in page order.
	Papers []types.Paper

	// TotalPages is the page count from the pagination block, or 0 when absent.
	TotalPages int

	// Rejected describes rows that had neither an identifier nor a link.
	Rejected []string
}

// ParseListingPage parses an SSRN JEL listing page. Relative links are
// resolved against base. A page without any div.trow returns ErrNoRows;
// individual malformed rows are reported in Page.Rejected.
func ParseListingPage(r io.Reader, base *url.URL) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parsing listing HTML: %w", err)
	}

	var page Page
	if total := doc.Find("div.pagination li.total").First(); total.Length() > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(total.Text())); err == nil {
			page.TotalPages = n
		}
	}

	rows := doc.Find("div.trow")
	if rows.Length() == 0 {
		return page, ErrNoRows
	}

	rows.Each(func(i int, row *goquery.Selection) {
		p := parseRow(row, base)
		if p.ID == "" && p.URL == "" {
			page.Rejected = append(page.Rejected,
				fmt.Sprintf("row %d: no identifier or link (%q)", i+1, clean(row.Text())))
			return
		}
		page.Papers = append(page.Papers, p)
	})
	return page, nil
}

func parseRow(row *goquery.Selection, base *url.URL) types.Paper {
	var p types.Paper

	if id, ok := row.Attr("id"); ok {
		p.ID = strings.TrimPrefix(strings.TrimSpace(id), "div_")
	}

	desc := row.Find("div.description").First()
	if title := desc.Find("a.title.optClickTitle").First(); title.Length() > 0 {
		p.Title = clean(title.Text())
		if href, ok := title.Attr("href"); ok {
			p.URL = resolve(base, href)
		}
	}

	desc.Find("div.note.note-list span").Each(func(_ int, span *goquery.Selection) {
		text := clean(span.Text())
		switch {
		case strings.Contains(text, "Number of pages:"):
			p.Pages = afterLabel(text, "Number of pages:")
		case strings.Contains(text, "Last Revised:"):
			p.LastRevised = afterLabel(text, "Last Revised:")
		case strings.Contains(text, "Posted:"):
			p.PostedDate = afterLabel(text, "Posted:")
		}
	})

	affiliations := desc.Find("div.afiliations")
	desc.Find("div.authors-list a").Each(func(i int, a *goquery.Selection) {
		author := types.Author{Name: clean(a.Text())}
		if href, ok := a.Attr("href"); ok {
			author.ProfileURL = resolve(base, href)
		}
		if i < affiliations.Length() {
			author.Affiliation = clean(affiliations.Eq(i).Text())
		}
		p.Authors = append(p.Authors, author)
	})

	if kw := desc.Find("div.keywords").First(); kw.Length() > 0 {
		p.Keywords = afterLabel(clean(kw.Text()), "Keywords:")
	}

	if dl := row.Find("div.downloads span:nth-child(2)").First(); dl.Length() > 0 {
		p.Downloads = clean(dl.Text())
	}
	return p
}

// clean folds runs of whitespace into single spaces.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func afterLabel(text, label string) string {
	if i := strings.Index(text, label); i >= 0 {
		text = text[i+len(label):]
	}
	return strings.TrimSpace(text)
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

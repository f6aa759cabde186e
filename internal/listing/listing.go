// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing collects paper records from SSRN JEL-code listing pages.
package listing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ssrn-abstracts/internal/httputil"
	"github.com/pdiddy/ssrn-abstracts/internal/pace"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// listingBase is the SSRN JEL listing endpoint. Declared as a var so tests
// can substitute an httptest server.
var listingBase = "https://papers.ssrn.com/sol3/jweljour_results.cfm"

// DefaultPageDelay separates consecutive listing page requests.
const DefaultPageDelay = time.Second

// Result holds the outcome of a listing run.
type Result struct {
	Papers   []types.Paper
	Pages    int
	Rejected int

	// Partial is set when a page after the first failed and the run
	// stopped early with the papers collected so far.
	Partial bool
}

// List fetches listing pages for cfg.JELCode until the pages are
// exhausted, cfg.MaxPages is reached, or cfg.MaxPapers papers have been
// collected. A failure on the first page is returned as an error; a
// failure on a later page stops the run and marks the result Partial.
// The pacer is waited on between pages; nil uses cfg.PageDelay.
func List(ctx context.Context, client *http.Client, cfg types.ListConfig, pacer *pace.Pacer, log zerolog.Logger) (Result, error) {
	if cfg.JELCode == "" {
		return Result{}, fmt.Errorf("JEL code is required")
	}
	if pacer == nil {
		pacer = pace.Fixed(cfg.PageDelay)
	}

	var result Result
	maxPages := cfg.MaxPages

	for page := 1; ; page++ {
		if maxPages > 0 && page > maxPages {
			break
		}
		if page > 1 {
			if _, err := pacer.Wait(ctx); err != nil {
				return result, err
			}
		}

		pageURL := PageURL(cfg.JELCode, page)
		log.Info().Int("page", page).Str("url", pageURL).Msg("fetching listing page")

		parsed, err := fetchPage(ctx, client, pageURL, cfg.HTTPConfig)
		if errors.Is(err, ErrNoRows) {
			log.Info().Int("page", page).Msg("no more papers")
			break
		}
		if err != nil {
			if page == 1 {
				return result, fmt.Errorf("listing page 1: %w", err)
			}
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			log.Warn().Err(err).Int("page", page).Msg("listing page failed, keeping papers collected so far")
			result.Partial = true
			break
		}

		if page == 1 && parsed.TotalPages > 0 {
			log.Info().Int("total_pages", parsed.TotalPages).Msg("pagination found")
			if maxPages == 0 || parsed.TotalPages < maxPages {
				maxPages = parsed.TotalPages
			}
		}

		for _, reason := range parsed.Rejected {
			log.Warn().Int("page", page).Msg("skipping listing row: " + reason)
		}
		result.Rejected += len(parsed.Rejected)
		result.Pages = page

		for _, p := range parsed.Papers {
			log.Debug().Str("paper_id", p.ID).Str("title", p.Title).Msg("found paper")
		}
		result.Papers = append(result.Papers, parsed.Papers...)
		log.Info().Int("page", page).Int("found", len(parsed.Papers)).Int("total", len(result.Papers)).Msg("processed listing page")

		if cfg.MaxPapers > 0 && len(result.Papers) >= cfg.MaxPapers {
			result.Papers = result.Papers[:cfg.MaxPapers]
			log.Info().Int("max_papers", cfg.MaxPapers).Msg("reached paper limit")
			break
		}
	}

	log.Info().Int("pages", result.Pages).Int("papers", len(result.Papers)).Msg("listing completed")
	return result, nil
}

// PageURL returns the listing URL for a JEL code and 1-based page number.
func PageURL(jelCode string, page int) string {
	q := url.Values{}
	q.Set("code", jelCode)
	q.Set("page", strconv.Itoa(page))
	return listingBase + "?" + q.Encode()
}

func fetchPage(ctx context.Context, client *http.Client, pageURL string, cfg types.HTTPConfig) (Page, error) {
	body, err := httputil.GetHTML(ctx, client, pageURL, cfg)
	if err != nil {
		return Page{}, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return Page{}, fmt.Errorf("parsing page URL: %w", err)
	}
	return ParseListingPage(bytes.NewReader(body), base)
}

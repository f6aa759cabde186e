// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ssrn-abstracts
// lister and downloader.
package types

// Author is a paper author as shown on an SSRN listing row.
type Author struct {
	Name        string `json:"name" yaml:"name"`
	ProfileURL  string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Paper is one entry discovered on a listing page. Papers are created by
// the lister in discovery order and are not modified afterwards.
type Paper struct {
	// ID is the listing row identifier (the "div_" prefix stripped).
	ID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`

	// Title is the paper title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// URL is the absolute abstract page URL.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	Authors     []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Pages       string   `json:"pages,omitempty" yaml:"pages,omitempty"`
	PostedDate  string   `json:"posted_date,omitempty" yaml:"posted_date,omitempty"`
	LastRevised string   `json:"last_revised,omitempty" yaml:"last_revised,omitempty"`
	Keywords    string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Downloads   string   `json:"downloads,omitempty" yaml:"downloads,omitempty"`
}

// Abstract is the downloaded abstract for one paper, keyed by AbstractID.
type Abstract struct {
	AbstractID string `json:"abstract_id" yaml:"abstract_id"`
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
	Abstract   string `json:"abstract" yaml:"abstract"`
}

// FailureKind classifies why a paper could not be processed.
type FailureKind string

const (
	FailureNetwork     FailureKind = "network"
	FailureHTTP        FailureKind = "http"
	FailureRateLimited FailureKind = "rate_limited"
	FailureParse       FailureKind = "parse"
	FailureInvalid     FailureKind = "invalid"
)

// FailedPaper records a paper whose abstract could not be downloaded.
type FailedPaper struct {
	Paper  `yaml:",inline"`
	Kind   FailureKind `json:"failure_kind" yaml:"failure_kind"`
	Reason string      `json:"failure_reason" yaml:"failure_reason"`
}

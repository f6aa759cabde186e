// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abstract downloads SSRN abstract pages one at a time and persists
// the extracted abstracts.
package abstract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ssrn-abstracts/internal/httputil"
	"github.com/pdiddy/ssrn-abstracts/internal/pace"
	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// BatchResult holds the outcome of a download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Abstracts holds every record written to the output file.
	Abstracts map[string]types.Abstract

	// Failures lists the papers that could not be processed, in list order.
	Failures []types.FailedPaper
}

// Total returns the number of papers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any paper failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Downloader fetches abstracts sequentially. Consecutive fetches are
// separated by a Pacer wait; nothing runs concurrently.
type Downloader struct {
	Client *http.Client
	Config types.DownloadConfig
	Pacer  *pace.Pacer
	Log    zerolog.Logger
}

// New returns a Downloader that waits uniformly between
// types.DefaultMinDelay and types.DefaultMaxDelay between fetches.
func New(client *http.Client, cfg types.DownloadConfig, log zerolog.Logger) *Downloader {
	return &Downloader{
		Client: client,
		Config: cfg,
		Pacer:  pace.Uniform(types.DefaultMinDelay, types.DefaultMaxDelay),
		Log:    log,
	}
}

// Run downloads the abstract of every paper in order. Each identifier is
// fetched at most once: duplicates within the list and identifiers
// already present in the resume file are skipped. A per-paper failure is
// logged, recorded in the failures file, and the run continues. Every
// successful abstract is written to the output file before the next paper
// starts.
//
// Run returns an error only when the context ends or an output file
// cannot be written.
func (d *Downloader) Run(ctx context.Context, papers []types.Paper) (BatchResult, error) {
	result := BatchResult{Abstracts: map[string]types.Abstract{}}
	seen := map[string]bool{}

	if d.Config.ResumePath != "" {
		previous, err := ReadAbstracts(d.Config.ResumePath)
		if err != nil {
			return result, fmt.Errorf("loading resume file: %w", err)
		}
		// Carry over only records that belong to this list.
		for _, p := range papers {
			id, _ := Identify(p)
			if rec, ok := previous[id]; ok {
				result.Abstracts[id] = rec
				seen[id] = true
			}
		}
		d.Log.Info().Int("existing", len(result.Abstracts)).Str("file", d.Config.ResumePath).Msg("resuming")
	}

	total := len(papers)
	d.Log.Info().Int("papers", total).Msg("starting abstract download")

	fetched := 0
	for i, p := range papers {
		id, pageURL := Identify(p)
		log := d.Log.With().Int("n", i+1).Int("of", total).Str("abstract_id", id).Logger()

		if id == "" {
			err := fmt.Errorf("paper has neither an abstract ID nor a paper ID")
			if err := d.fail(&result, p, types.FailureInvalid, err, log); err != nil {
				return result, err
			}
			continue
		}
		if seen[id] {
			log.Info().Msg("skipped (already downloaded)")
			result.Skipped++
			continue
		}
		seen[id] = true

		if fetched > 0 {
			wait, err := d.Pacer.Wait(ctx)
			if err != nil {
				return result, d.saveInterrupted(result, err)
			}
			log.Debug().Dur("waited", wait).Msg("rate-limit delay")
		}
		fetched++

		rec, err := d.fetchAbstract(ctx, id, pageURL, p)
		if err != nil {
			if ctx.Err() != nil {
				return result, d.saveInterrupted(result, ctx.Err())
			}
			if err := d.fail(&result, p, classify(err), err, log); err != nil {
				return result, err
			}
			continue
		}

		result.Abstracts[id] = rec
		if err := WriteAbstracts(d.Config.OutputPath, result.Abstracts); err != nil {
			return result, fmt.Errorf("saving abstracts: %w", err)
		}
		result.Downloaded++
		log.Info().Str("title", p.Title).Msg("downloaded")
	}

	// Always leave an output file behind, even for an empty run.
	if err := WriteAbstracts(d.Config.OutputPath, result.Abstracts); err != nil {
		return result, fmt.Errorf("saving abstracts: %w", err)
	}

	d.Log.Info().
		Int("downloaded", result.Downloaded).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("total", result.Total()).
		Str("output", d.Config.OutputPath).
		Msg("download completed")
	if result.HasFailures() {
		d.Log.Warn().Int("failed", result.Failed).Str("file", d.Config.FailedPath).Msg("failed papers saved")
	}
	return result, nil
}

// saveInterrupted writes the records collected so far, including resumed
// ones, and returns the interrupting error.
func (d *Downloader) saveInterrupted(result BatchResult, err error) error {
	if werr := WriteAbstracts(d.Config.OutputPath, result.Abstracts); werr != nil {
		return errors.Join(err, fmt.Errorf("saving abstracts: %w", werr))
	}
	return err
}

func (d *Downloader) fetchAbstract(ctx context.Context, id, pageURL string, p types.Paper) (types.Abstract, error) {
	body, err := httputil.GetHTML(ctx, d.Client, pageURL, d.Config.HTTPConfig)
	if err != nil {
		return types.Abstract{}, err
	}
	text, err := ParseAbstractPage(bytes.NewReader(body))
	if err != nil {
		return types.Abstract{}, err
	}
	return types.Abstract{
		AbstractID: id,
		Title:      p.Title,
		URL:        pageURL,
		Abstract:   text,
	}, nil
}

// fail records a failed paper and rewrites the failures file.
func (d *Downloader) fail(result *BatchResult, p types.Paper, kind types.FailureKind, err error, log zerolog.Logger) error {
	result.Failed++
	result.Failures = append(result.Failures, types.FailedPaper{
		Paper:  p,
		Kind:   kind,
		Reason: err.Error(),
	})

	event := log.Error()
	if kind == types.FailureRateLimited {
		event = log.Warn()
	}
	event.Err(err).Str("kind", string(kind)).Str("title", p.Title).Msg("failed")

	if d.Config.FailedPath == "" {
		return nil
	}
	if werr := WriteFailed(d.Config.FailedPath, result.Failures); werr != nil {
		return fmt.Errorf("saving failed papers: %w", werr)
	}
	return nil
}

func classify(err error) types.FailureKind {
	var se *httputil.StatusError
	switch {
	case httputil.IsRateLimited(err):
		return types.FailureRateLimited
	case errors.As(err, &se):
		return types.FailureHTTP
	case errors.Is(err, ErrNoAbstract):
		return types.FailureParse
	default:
		return types.FailureNetwork
	}
}

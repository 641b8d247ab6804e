// Package pipeline runs a full company analysis: reuse a fresh stored run
// or fetch, annotate, analyze and store a new one.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/matheuskafuri/newsvoice/internal/feed"
	"github.com/matheuskafuri/newsvoice/internal/nlp"
	"github.com/sirupsen/logrus"
)

// ErrEmptyCompany is returned when Run is called without a company name.
var ErrEmptyCompany = errors.New("company name is required")

// Store is the persistence the pipeline needs. *cache.Cache satisfies it.
type Store interface {
	SaveRun(d *analysis.Digest, at time.Time) (int64, error)
	LatestRun(company string, maxAge time.Duration) (*cache.Run, error)
}

type Pipeline struct {
	Fetchers    feed.Fetchers
	Enricher    *feed.Enricher // optional
	Sources     []config.Source
	Annotator   nlp.Annotator
	Store       Store             // optional
	Digests     cache.DigestCache // optional
	MaxArticles int
	MaxAge      time.Duration
	Workers     int
	Log         logrus.FieldLogger

	now func() time.Time
}

// New wires a pipeline from cfg. store and digests may be nil.
func New(cfg *config.Config, annotator nlp.Annotator, store Store, digests cache.DigestCache, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		Fetchers:    feed.NewFetchers(nil, cfg.GetFetchRate()),
		Enricher:    enricher(cfg),
		Sources:     cfg.EnabledSources(),
		Annotator:   annotator,
		Store:       store,
		Digests:     digests,
		MaxArticles: cfg.GetMaxArticles(),
		MaxAge:      cfg.RefreshDuration(),
		Workers:     4,
		Log:         log,
	}
}

type RunOpts struct {
	// Refresh skips stored results and always fetches.
	Refresh bool
}

// Result is a digest plus where it came from.
type Result struct {
	Digest      *analysis.Digest
	Cached      bool
	FetchErrors []error
}

func (p *Pipeline) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Pipeline) Run(ctx context.Context, company string, opts RunOpts) (*Result, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, ErrEmptyCompany
	}
	log := p.Log.WithField("company", company)

	if !opts.Refresh {
		if d := p.cached(ctx, company, log); d != nil {
			return &Result{Digest: d, Cached: true}, nil
		}
	}

	start := p.clock()
	fetched := feed.FetchAll(ctx, p.Fetchers, p.Sources, company, p.MaxArticles)
	for _, err := range fetched.Errors {
		log.WithError(err).Warn("source failed")
	}
	if len(fetched.Items) == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", company, feed.ErrNoArticles)
	}
	if p.Enricher != nil {
		for _, err := range p.Enricher.Enrich(ctx, fetched.Items) {
			log.WithError(err).Debug("summary enrichment failed")
		}
	}
	log.WithField("articles", len(fetched.Items)).Debug("fetched")

	articles, err := nlp.AnnotateAll(ctx, p.Annotator, fetched.Items, p.Workers)
	if err != nil {
		return nil, fmt.Errorf("annotating articles: %w", err)
	}

	digest, err := analysis.NewDigest(company, articles)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", company, err)
	}

	p.store(ctx, digest, log)

	log.WithFields(logrus.Fields{
		"articles": len(articles),
		"elapsed":  p.clock().Sub(start).Round(time.Millisecond),
	}).Info("analysis complete")

	return &Result{Digest: digest, FetchErrors: fetched.Errors}, nil
}

func (p *Pipeline) cached(ctx context.Context, company string, log logrus.FieldLogger) *analysis.Digest {
	if p.Digests != nil {
		d, ok, err := p.Digests.Get(ctx, company)
		if err != nil {
			log.WithError(err).Warn("digest cache lookup failed")
		} else if ok {
			log.Debug("served from digest cache")
			return d
		}
	}
	if p.Store != nil && p.MaxAge > 0 {
		run, err := p.Store.LatestRun(company, p.MaxAge)
		if err != nil {
			log.WithError(err).Warn("stored run lookup failed")
			return nil
		}
		if run != nil {
			log.WithField("run", run.ID).Debug("reusing stored run")
			return run.Digest
		}
	}
	return nil
}

// store persists best-effort: failures are logged, never returned.
func (p *Pipeline) store(ctx context.Context, d *analysis.Digest, log logrus.FieldLogger) {
	if p.Store != nil {
		if _, err := p.Store.SaveRun(d, p.clock()); err != nil {
			log.WithError(err).Warn("saving run failed")
		}
	}
	if p.Digests != nil {
		if err := p.Digests.Set(ctx, d); err != nil {
			log.WithError(err).Warn("caching digest failed")
		}
	}
}

func enricher(cfg *config.Config) *feed.Enricher {
	if !cfg.EnrichSummaries {
		return nil
	}
	return feed.NewEnricher(cfg.GetFetchRate(), 20*time.Second)
}

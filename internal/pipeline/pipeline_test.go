package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/matheuskafuri/newsvoice/internal/feed"
	"github.com/matheuskafuri/newsvoice/internal/logger"
	"github.com/matheuskafuri/newsvoice/internal/nlp"
)

type stubFetcher struct {
	calls atomic.Int32
	items []feed.Item
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, _ config.Source, _ string) ([]feed.Item, error) {
	s.calls.Add(1)
	return s.items, s.err
}

func newsItems() []feed.Item {
	return []feed.Item{
		{Title: "Tesla posts record profits", Summary: "Tesla reported strong growth and record profits.", Link: "https://n/1"},
		{Title: "Tesla recall", Summary: "Regulators open probe after crash; shares plunge.", Link: "https://n/2"},
		{Title: "Tesla meeting", Summary: "The annual meeting is scheduled for June.", Link: "https://n/3"},
	}
}

func testPipeline(t *testing.T, f *stubFetcher) (*Pipeline, *cache.Cache) {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "p.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Pipeline{
		Fetchers:    feed.Fetchers{RSS: f, HTML: f},
		Sources:     []config.Source{{Name: "stub", Type: "html"}},
		Annotator:   nlp.NewLocal(),
		Store:       db,
		MaxArticles: 10,
		MaxAge:      time.Hour,
		Workers:     2,
		Log:         logger.Discard(),
	}, db
}

func TestRunFetchesAnalyzesAndStores(t *testing.T) {
	f := &stubFetcher{items: newsItems()}
	p, db := testPipeline(t, f)

	res, err := p.Run(context.Background(), "  Tesla ", RunOpts{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cached {
		t.Error("first run should not be cached")
	}
	d := res.Digest
	if d.Company != "Tesla" {
		t.Errorf("expected trimmed company, got %q", d.Company)
	}
	if len(d.Articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(d.Articles))
	}
	want := analysis.Distribution{Positive: 1, Negative: 1, Neutral: 1}
	if d.Report.Distribution != want {
		t.Errorf("distribution = %+v, want %+v", d.Report.Distribution, want)
	}

	runs, err := db.Runs(5)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected run stored, got %d", len(runs))
	}
}

func TestRunReusesFreshRun(t *testing.T) {
	f := &stubFetcher{items: newsItems()}
	p, _ := testPipeline(t, f)

	if _, err := p.Run(context.Background(), "Tesla", RunOpts{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res, err := p.Run(context.Background(), "tesla", RunOpts{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Cached {
		t.Error("expected stored run to be reused")
	}
	if f.calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", f.calls.Load())
	}

	if _, err := p.Run(context.Background(), "Tesla", RunOpts{Refresh: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.calls.Load() != 2 {
		t.Errorf("refresh should fetch again, got %d fetches", f.calls.Load())
	}
}

func TestRunNoArticles(t *testing.T) {
	f := &stubFetcher{err: errors.New("blocked")}
	p, _ := testPipeline(t, f)

	_, err := p.Run(context.Background(), "Nobody Corp", RunOpts{})
	if !errors.Is(err, feed.ErrNoArticles) {
		t.Errorf("expected ErrNoArticles, got %v", err)
	}
}

func TestRunEmptyCompany(t *testing.T) {
	p, _ := testPipeline(t, &stubFetcher{})
	if _, err := p.Run(context.Background(), "   ", RunOpts{}); !errors.Is(err, ErrEmptyCompany) {
		t.Errorf("expected ErrEmptyCompany, got %v", err)
	}
}

type badAnnotator struct{}

func (badAnnotator) Annotate(context.Context, string, string) (nlp.Annotation, error) {
	return nlp.Annotation{Sentiment: "Mixed"}, nil
}

func TestRunInvalidLabelFails(t *testing.T) {
	p, _ := testPipeline(t, &stubFetcher{items: newsItems()})
	p.Annotator = badAnnotator{}

	_, err := p.Run(context.Background(), "Tesla", RunOpts{})
	if !errors.Is(err, analysis.ErrInvalidSentimentLabel) {
		t.Errorf("expected ErrInvalidSentimentLabel, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) SaveRun(*analysis.Digest, time.Time) (int64, error) {
	return 0, errors.New("disk full")
}

func (failingStore) LatestRun(string, time.Duration) (*cache.Run, error) {
	return nil, errors.New("locked")
}

func TestRunStoreFailuresAreNotFatal(t *testing.T) {
	p, _ := testPipeline(t, &stubFetcher{items: newsItems()})
	p.Store = failingStore{}

	res, err := p.Run(context.Background(), "Tesla", RunOpts{})
	if err != nil {
		t.Fatalf("Run should succeed despite store errors: %v", err)
	}
	if res.Digest == nil {
		t.Fatal("expected digest")
	}
}

type memDigests struct {
	m map[string]*analysis.Digest
}

func (c *memDigests) Get(_ context.Context, company string) (*analysis.Digest, bool, error) {
	d, ok := c.m[company]
	return d, ok, nil
}

func (c *memDigests) Set(_ context.Context, d *analysis.Digest) error {
	c.m[d.Company] = d
	return nil
}

func (c *memDigests) Close() error { return nil }

func TestRunUsesDigestCache(t *testing.T) {
	f := &stubFetcher{items: newsItems()}
	p, _ := testPipeline(t, f)
	p.Store = nil
	p.Digests = &memDigests{m: map[string]*analysis.Digest{}}

	if _, err := p.Run(context.Background(), "Tesla", RunOpts{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res, err := p.Run(context.Background(), "Tesla", RunOpts{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Cached || f.calls.Load() != 1 {
		t.Errorf("expected digest cache hit, cached=%v fetches=%d", res.Cached, f.calls.Load())
	}
}

func TestRunEnrichesMissingSummaries(t *testing.T) {
	f := &stubFetcher{items: []feed.Item{
		{Title: "Tesla update", Summary: "No summary available", Link: "https://n/9"},
	}}
	p, _ := testPipeline(t, f)
	p.Enricher = &feed.Enricher{Workers: 1, Extract: func(_ context.Context, link string) (string, error) {
		return "Tesla reported strong growth and record profits.", nil
	}}

	res, err := p.Run(context.Background(), "Tesla", RunOpts{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a := res.Digest.Articles[0]
	if a.Summary != "Tesla reported strong growth and record profits." {
		t.Errorf("summary not enriched: %q", a.Summary)
	}
	if a.Sentiment != analysis.Positive {
		t.Errorf("expected enriched text to drive sentiment, got %s", a.Sentiment)
	}
}

package feed

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"golang.org/x/time/rate"
)

// ErrNoArticles is returned when no source produced a usable article.
var ErrNoArticles = errors.New("no news articles found")

const (
	noSummary  = "No summary available"
	summaryMax = 300
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"
)

// Item is a raw news item before annotation.
type Item struct {
	ID        string
	Title     string
	Link      string
	Summary   string
	Source    string
	Published time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source, query string) ([]Item, error)
}

// Fetchers picks the fetcher for each source type.
type Fetchers struct {
	RSS  Fetcher
	HTML Fetcher
}

// NewFetchers builds rate-limited RSS and HTML fetchers sharing client.
// rps <= 0 disables limiting.
func NewFetchers(client *http.Client, rps float64) Fetchers {
	return Fetchers{
		RSS:  NewRSSFetcher(client, newLimiter(rps)),
		HTML: NewHTMLFetcher(client, newLimiter(rps)),
	}
}

func (f Fetchers) For(source config.Source) (Fetcher, error) {
	switch source.Type {
	case "rss":
		if f.RSS != nil {
			return f.RSS, nil
		}
	case "html":
		if f.HTML != nil {
			return f.HTML, nil
		}
	}
	return nil, fmt.Errorf("source %q: no fetcher for type %q", source.Name, source.Type)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func articleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// stripHTML parses s as an HTML fragment and returns its text with entities
// decoded and whitespace collapsed.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

type FetchResult struct {
	Items  []Item
	Errors []error
}

// FetchAll queries every source concurrently. Items are merged in source
// order, deduplicated on (title, summary) and cut to limit (limit <= 0 keeps
// everything). A failing source is recorded in Errors and does not stop the
// others.
func FetchAll(ctx context.Context, fetchers Fetchers, sources []config.Source, query string, limit int) FetchResult {
	perSource := make([][]Item, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, s config.Source) {
			defer wg.Done()
			f, err := fetchers.For(s)
			if err != nil {
				errs[i] = err
				return
			}
			perSource[i], errs[i] = f.Fetch(ctx, s, query)
		}(i, src)
	}
	wg.Wait()

	var result FetchResult
	for _, err := range errs {
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
	}
	result.Items = dedupe(perSource, limit)
	return result
}

type itemKey struct{ title, summary string }

func dedupe(perSource [][]Item, limit int) []Item {
	seen := make(map[itemKey]bool)
	var out []Item
	for _, items := range perSource {
		for _, it := range items {
			k := itemKey{it.Title, it.Summary}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, it)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}

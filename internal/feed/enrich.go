package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ExtractFunc returns the readable text of the page at link.
type ExtractFunc func(ctx context.Context, link string) (string, error)

// Enricher replaces placeholder summaries with the opening of the article
// body, extracted with go-readability.
type Enricher struct {
	Extract ExtractFunc
	Workers int
	limiter *rate.Limiter
}

func NewEnricher(rps float64, timeout time.Duration) *Enricher {
	return &Enricher{
		Extract: readabilityExtract(timeout),
		Workers: 4,
		limiter: newLimiter(rps),
	}
}

func readabilityExtract(timeout time.Duration) ExtractFunc {
	return func(ctx context.Context, link string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		article, err := readability.FromURL(link, timeout)
		if err != nil {
			return "", err
		}
		return article.TextContent, nil
	}
}

// Enrich fills in items whose summary is missing, in place. Failures leave
// the placeholder and are returned per item.
func (e *Enricher) Enrich(ctx context.Context, items []Item) []error {
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(max(e.Workers, 1))
	for i := range items {
		if items[i].Summary != noSummary || items[i].Link == "" {
			continue
		}
		g.Go(func() error {
			if e.limiter != nil {
				if err := e.limiter.Wait(ctx); err != nil {
					errs[i] = err
					return nil
				}
			}
			text, err := e.Extract(ctx, items[i].Link)
			if err != nil {
				errs[i] = fmt.Errorf("extracting %s: %w", items[i].Link, err)
				return nil
			}
			if text = strings.Join(strings.Fields(text), " "); text != "" {
				items[i].Summary = truncate(text, summaryMax)
			}
			return nil
		})
	}
	g.Wait()

	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

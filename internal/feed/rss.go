package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

type RSSFetcher struct {
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

func NewRSSFetcher(client *http.Client, limiter *rate.Limiter) *RSSFetcher {
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	p.UserAgent = userAgent
	return &RSSFetcher{parser: p, limiter: limiter}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source, query string) ([]Item, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	feed, err := f.parser.ParseURLWithContext(source.SearchURL(query), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(stripHTML(it.Title))
		if title == "" || it.Link == "" {
			continue
		}

		pub := now
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		}

		desc := it.Description
		if desc == "" {
			desc = it.Content
		}
		desc = truncate(stripHTML(desc), summaryMax)
		if desc == "" {
			desc = noSummary
		}

		items = append(items, Item{
			ID:        articleID(it.Link),
			Title:     title,
			Link:      it.Link,
			Summary:   desc,
			Source:    source.Name,
			Published: pub,
		})
	}
	return items, nil
}

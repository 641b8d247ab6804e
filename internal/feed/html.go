package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"golang.org/x/time/rate"
)

// HTMLFetcher scrapes news-search result pages made of ".news-card" blocks.
type HTMLFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTMLFetcher(client *http.Client, limiter *rate.Limiter) *HTMLFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTMLFetcher{client: client, limiter: limiter}
}

func (f *HTMLFetcher) Fetch(ctx context.Context, source config.Source, query string) ([]Item, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.SearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", source.Name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source.Name, err)
	}

	return parseCards(doc, source.Name, time.Now()), nil
}

// parseCards extracts items from news cards. The title comes from "a.title",
// or the card's first link when that is missing; cards without a title or
// link are dropped.
func parseCards(doc *goquery.Document, sourceName string, now time.Time) []Item {
	var items []Item
	doc.Find(".news-card").Each(func(_ int, card *goquery.Selection) {
		a := card.Find("a.title").First()
		if a.Length() == 0 {
			a = card.Find("a").First()
		}
		title := strings.TrimSpace(a.Text())
		link, _ := a.Attr("href")
		link = strings.TrimSpace(link)
		if title == "" || link == "" {
			return
		}

		summary := noSummary
		if s := card.Find(".snippet").First(); s.Length() > 0 {
			summary = strings.Join(strings.Fields(s.Text()), " ")
		}

		items = append(items, Item{
			ID:        articleID(link),
			Title:     title,
			Link:      link,
			Summary:   summary,
			Source:    sourceName,
			Published: now,
		})
	})
	return items
}

package cache

import (
	"strings"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

// Run is one stored analysis of a company.
type Run struct {
	ID        int64
	Company   string
	CreatedAt time.Time
	Digest    *analysis.Digest
}

// Article is an annotated article as stored with its run.
type Article struct {
	RunID     int64
	Company   string
	Title     string
	Link      string
	Summary   string
	Sentiment analysis.Sentiment
	Topics    []string
	FetchedAt time.Time
}

type QueryOpts struct {
	Company   string
	Since     time.Time
	Sentiment analysis.Sentiment
	Search    string
	Limit     int
}

type Stats struct {
	Runs      int
	Articles  int
	Companies int
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
}

// companyKey normalizes a company name for lookups.
func companyKey(company string) string {
	return strings.ToLower(strings.Join(strings.Fields(company), " "))
}

package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentiment is the label an annotator assigns to an article.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

// AllSentiments returns the valid labels in canonical order.
func AllSentiments() []Sentiment {
	return []Sentiment{Positive, Negative, Neutral}
}

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// ParseSentiment maps a label to a Sentiment, ignoring case and surrounding space.
func ParseSentiment(label string) (Sentiment, error) {
	label = strings.TrimSpace(label)
	for _, s := range AllSentiments() {
		if strings.EqualFold(string(s), label) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSentimentLabel, label)
}

// Article is one news item that has already been scored and tagged.
type Article struct {
	Title     string    `json:"Title"`
	Summary   string    `json:"Summary"`
	Sentiment Sentiment `json:"Sentiment"`
	Topics    []string  `json:"Topics"`
	Link      string    `json:"Link,omitempty"`
}

// Distribution counts articles per sentiment label.
type Distribution struct {
	Positive int `json:"Positive"`
	Negative int `json:"Negative"`
	Neutral  int `json:"Neutral"`
}

func (d Distribution) Total() int {
	return d.Positive + d.Negative + d.Neutral
}

// CoverageDifference contrasts two nearby articles with different sentiment.
type CoverageDifference struct {
	Comparison string `json:"Comparison"`
	Impact     string `json:"Impact"`
}

// ArticleTopics holds the topics found only in one article.
type ArticleTopics struct {
	Label  string
	Topics []string
}

// UniqueTopics keeps per-article unique topics in article order. It encodes
// as a JSON object whose keys follow that order.
type UniqueTopics []ArticleTopics

// Get returns the unique topics recorded for label.
func (u UniqueTopics) Get(label string) ([]string, bool) {
	for _, e := range u {
		if e.Label == label {
			return e.Topics, true
		}
	}
	return nil, false
}

func (u UniqueTopics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range u {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		topics := e.Topics
		if topics == nil {
			topics = []string{}
		}
		val, err := json.Marshal(topics)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (u *UniqueTopics) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*u = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("unique topics: expected JSON object")
	}
	out := UniqueTopics{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return errors.New("unique topics: expected string key")
		}
		var topics []string
		if err := dec.Decode(&topics); err != nil {
			return fmt.Errorf("unique topics %q: %w", label, err)
		}
		out = append(out, ArticleTopics{Label: label, Topics: topics})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*u = out
	return nil
}

// TopicOverlap splits topics into those shared across articles and those
// that appear in a single article.
type TopicOverlap struct {
	CommonTopics []string     `json:"Common Topics"`
	UniqueTopics UniqueTopics `json:"Unique Topics"`
}

// Report is the comparative analysis of one article set.
type Report struct {
	Distribution        Distribution         `json:"Sentiment Distribution"`
	CoverageDifferences []CoverageDifference `json:"Coverage Differences"`
	TopicOverlap        TopicOverlap         `json:"Topic Overlap"`
	FinalSentiment      string               `json:"Final Sentiment Analysis"`
}

// Digest is the processed output for one company: the scored articles and
// their comparative report.
type Digest struct {
	Company        string    `json:"Company"`
	Articles       []Article `json:"Articles"`
	Report         Report    `json:"Comparative Sentiment Score"`
	FinalSentiment string    `json:"Final Sentiment Analysis"`
}

// NewDigest analyzes articles and assembles the output for company.
func NewDigest(company string, articles []Article) (*Digest, error) {
	report, err := Analyze(articles)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []Article{}
	}
	return &Digest{
		Company:        company,
		Articles:       articles,
		Report:         *report,
		FinalSentiment: report.FinalSentiment,
	}, nil
}

package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidSentimentLabel is returned when an article carries a label
// outside Positive, Negative and Neutral.
var ErrInvalidSentimentLabel = errors.New("invalid sentiment label")

// InvalidSentimentError identifies the article that broke the label contract.
type InvalidSentimentError struct {
	Index int
	Label Sentiment
}

func (e *InvalidSentimentError) Error() string {
	return fmt.Sprintf("article %d: %v %q", e.Index+1, ErrInvalidSentimentLabel, string(e.Label))
}

func (e *InvalidSentimentError) Unwrap() error {
	return ErrInvalidSentimentLabel
}

// Aggregate counts articles by their precomputed sentiment. It stops at the
// first invalid label and returns a zero Distribution with the error.
func Aggregate(articles []Article) (Distribution, error) {
	var d Distribution
	for i, a := range articles {
		switch a.Sentiment {
		case Positive:
			d.Positive++
		case Negative:
			d.Negative++
		case Neutral:
			d.Neutral++
		default:
			return Distribution{}, &InvalidSentimentError{Index: i, Label: a.Sentiment}
		}
	}
	return d, nil
}

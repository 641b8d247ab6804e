package analysis

import (
	"fmt"
	"strings"
)

const (
	// compareWindow is how many successors each article is compared against.
	compareWindow = 2
	// maxDifferences caps the list shown to readers; the first ones in scan
	// order are kept.
	maxDifferences = 3
	titleLimit     = 40
)

// Compare builds narrative comparisons between nearby articles whose
// sentiment differs.
func Compare(articles []Article) []CoverageDifference {
	diffs := []CoverageDifference{}
	n := len(articles)
	for i := 0; i < n-1; i++ {
		last := min(i+compareWindow, n-1)
		for j := i + 1; j <= last; j++ {
			a, b := articles[i], articles[j]
			if a.Sentiment == b.Sentiment {
				continue
			}
			diffs = append(diffs, CoverageDifference{
				Comparison: comparison(a, b),
				Impact:     impact(a, b),
			})
		}
	}
	if len(diffs) > maxDifferences {
		diffs = diffs[:maxDifferences]
	}
	return diffs
}

func comparison(a, b Article) string {
	return fmt.Sprintf("Article '%s' has %s sentiment, while '%s' has %s sentiment.",
		shortTitle(a.Title), strings.ToLower(string(a.Sentiment)),
		shortTitle(b.Title), strings.ToLower(string(b.Sentiment)))
}

func impact(a, b Article) string {
	switch {
	case a.Sentiment == Positive && b.Sentiment == Negative:
		return fmt.Sprintf("The positive news about %s is offset by concerns regarding %s.",
			joinTopics(a.Topics, 2), joinTopics(b.Topics, 2))
	case a.Sentiment == Negative && b.Sentiment == Positive:
		return fmt.Sprintf("While there are concerns about %s, positive developments in %s may balance the overall impact.",
			joinTopics(a.Topics, 2), joinTopics(b.Topics, 2))
	default:
		var firsts []string
		if len(a.Topics) > 0 {
			firsts = append(firsts, a.Topics[0])
		}
		if len(b.Topics) > 0 && (len(firsts) == 0 || b.Topics[0] != firsts[0]) {
			firsts = append(firsts, b.Topics[0])
		}
		return fmt.Sprintf("The articles present different perspectives on %s.", strings.Join(firsts, ", "))
	}
}

func joinTopics(topics []string, n int) string {
	if len(topics) > n {
		topics = topics[:n]
	}
	return strings.Join(topics, ", ")
}

func shortTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleLimit {
		return title
	}
	return string(runes[:titleLimit]) + "..."
}

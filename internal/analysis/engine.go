// Package analysis turns a set of scored articles into a comparative report:
// sentiment distribution, coverage differences between nearby articles,
// topic overlap and a one-sentence verdict.
//
// Everything here is a pure function of its input. Callers may run Analyze
// concurrently on independent article sets.
package analysis

// Analyze runs the comparative analysis over articles. The only failure is
// an article with an unknown sentiment label, which is reported before any
// other work is done.
func Analyze(articles []Article) (*Report, error) {
	dist, err := Aggregate(articles)
	if err != nil {
		return nil, err
	}

	return &Report{
		Distribution:        dist,
		CoverageDifferences: Compare(articles),
		TopicOverlap:        Overlap(articles),
		FinalSentiment:      Verdict(dist, articles),
	}, nil
}

package analysis

import "fmt"

// TopicFrequency counts, for every topic, how many articles mention it.
// A topic repeated inside one article's list is counted once.
func TopicFrequency(articles []Article) map[string]int {
	freq := make(map[string]int)
	for _, a := range articles {
		seen := make(map[string]bool, len(a.Topics))
		for _, t := range a.Topics {
			if seen[t] {
				continue
			}
			seen[t] = true
			freq[t]++
		}
	}
	return freq
}

// ArticleLabel is the display key for the article at zero-based index i.
func ArticleLabel(i int) string {
	return fmt.Sprintf("Article %d", i+1)
}

// Overlap partitions topics into common ones (mentioned by more than one
// article, first-seen order) and per-article unique ones.
func Overlap(articles []Article) TopicOverlap {
	freq := TopicFrequency(articles)

	overlap := TopicOverlap{
		CommonTopics: []string{},
		UniqueTopics: make(UniqueTopics, 0, len(articles)),
	}

	listed := make(map[string]bool)
	for i, a := range articles {
		unique := []string{}
		seen := make(map[string]bool, len(a.Topics))
		for _, t := range a.Topics {
			if seen[t] {
				continue
			}
			seen[t] = true

			if freq[t] > 1 {
				if !listed[t] {
					listed[t] = true
					overlap.CommonTopics = append(overlap.CommonTopics, t)
				}
				continue
			}
			unique = append(unique, t)
		}
		overlap.UniqueTopics = append(overlap.UniqueTopics, ArticleTopics{
			Label:  ArticleLabel(i),
			Topics: unique,
		})
	}
	return overlap
}

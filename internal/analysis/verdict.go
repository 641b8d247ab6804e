package analysis

import "fmt"

const fallbackAnchor = "the company"

// verdictRule pairs a condition on the distribution with the sentence used
// when it holds. Rules are evaluated in order and the first match wins.
type verdictRule struct {
	match    func(d Distribution) bool
	template string
}

var verdictRules = []verdictRule{
	{
		match:    func(d Distribution) bool { return d.Positive > d.Negative+d.Neutral },
		template: "Coverage is predominantly positive. Positive news about %s is particularly noteworthy.",
	},
	{
		match:    func(d Distribution) bool { return d.Negative > d.Positive+d.Neutral },
		template: "Coverage shows significant concerns, particularly regarding %s.",
	},
	{
		match:    func(d Distribution) bool { return d.Positive > d.Negative },
		template: "Coverage is cautiously positive, with some concerns noted about %s.",
	},
	{
		match:    func(d Distribution) bool { return d.Negative > d.Positive },
		template: "Coverage leans negative, though there are some positive developments in %s.",
	},
}

const mixedTemplate = "Coverage is mixed or neutral, with balanced perspectives on %s."

// Verdict summarizes the distribution in one sentence. The sentence is
// anchored on the first topic of the first article, whichever bucket wins.
func Verdict(d Distribution, articles []Article) string {
	anchor := anchorTopic(articles)
	for _, r := range verdictRules {
		if r.match(d) {
			return fmt.Sprintf(r.template, anchor)
		}
	}
	return fmt.Sprintf(mixedTemplate, anchor)
}

func anchorTopic(articles []Article) string {
	if len(articles) == 0 || len(articles[0].Topics) == 0 {
		return fallbackAnchor
	}
	return articles[0].Topics[0]
}

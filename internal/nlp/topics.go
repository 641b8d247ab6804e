package nlp

import (
	"sort"
	"strings"
	"unicode"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "not": true, "no": true, "nor": true,
	"how": true, "what": true, "when": true, "where": true, "who": true,
	"which": true, "why": true, "all": true, "each": true, "every": true,
	"both": true, "few": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "than": true, "too": true, "very": true,
	"just": true, "about": true, "into": true, "over": true, "after": true,
	"before": true, "between": true, "under": true, "above": true, "out": true,
	"up": true, "down": true, "off": true, "our": true, "your": true, "we": true,
	"you": true, "they": true, "them": true, "their": true, "also": true,
	"already": true, "said": true, "says": true, "while": true, "amid": true,
	"against": true, "there": true, "here": true, "then": true, "once": true,
	"again": true, "still": true, "even": true, "only": true, "much": true,
	"many": true, "year": true, "years": true, "week": true,
	"today": true, "yesterday": true, "according": true, "report": true,
	"reports": true, "news": true,
}

// words that never make a topic on their own
var skipTopics = map[string]bool{
	"the": true, "this": true, "that": true, "these": true, "those": true,
	"already": true, "an": true,
}

// KeywordTagger picks topics from capitalised phrases, then from the most
// frequent content words.
type KeywordTagger struct {
	max      int
	keywords int
}

func NewKeywordTagger(n int) *KeywordTagger {
	return &KeywordTagger{max: n, keywords: 5}
}

// Tag returns up to max title-cased topics for text.
func (k *KeywordTagger) Tag(text string) []string {
	candidates := append(phrases(text), topKeywords(text, k.keywords)...)

	topics := []string{}
	seen := make(map[string]bool)
	for _, c := range candidates {
		t := titleCase(strings.TrimSpace(c))
		if len(t) < 4 || skipTopics[strings.ToLower(t)] {
			continue
		}
		t = stripArticle(t)
		key := strings.ToLower(t)
		if len(t) <= 3 || seen[key] {
			continue
		}
		seen[key] = true
		topics = append(topics, t)
		if len(topics) == k.max {
			break
		}
	}
	return topics
}

// phrases returns runs of capitalised words, trimmed of stop words at both
// ends. A lone capitalised word only counts when it is not at the start of
// a sentence.
func phrases(text string) []string {
	var (
		out          []string
		run          []string
		runAtStart   bool
		sentenceHead = true
	)
	flush := func() {
		for len(run) > 0 && stopWords[strings.ToLower(run[0])] {
			run = run[1:]
			runAtStart = false
		}
		for len(run) > 0 && stopWords[strings.ToLower(run[len(run)-1])] {
			run = run[:len(run)-1]
		}
		if len(run) > 1 || (len(run) == 1 && !runAtStart) {
			out = append(out, strings.Join(run, " "))
		}
		run = nil
	}

	for _, field := range strings.Fields(text) {
		w := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" && isCapitalised(w) {
			if len(run) == 0 {
				runAtStart = sentenceHead
			}
			run = append(run, w)
		} else {
			flush()
		}
		// punctuation after a word ends the phrase
		if w != "" && strings.ContainsAny(field[len(field)-1:], ".,;:!?\"')") {
			flush()
		}
		if w != "" {
			sentenceHead = strings.ContainsAny(field[len(field)-1:], ".!?")
		}
	}
	flush()
	return out
}

func isCapitalised(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

// topKeywords returns the n most frequent content words longer than three
// letters, ties broken by first appearance.
func topKeywords(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range words(text) {
		if len(w) <= 3 || stopWords[w] || !isAlpha(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func isAlpha(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

func stripArticle(t string) string {
	lower := strings.ToLower(t)
	for _, p := range []string{"a ", "an ", "the "} {
		if strings.HasPrefix(lower, p) {
			return t[len(p):]
		}
	}
	return t
}

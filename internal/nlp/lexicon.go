package nlp

import (
	"math"
	"strings"
	"unicode"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

const (
	// normalization constant for the compound score
	alpha = 15.0

	negationScale = -0.74
	boosterIncr   = 0.293
	negationReach = 3

	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// valence of words common in business and company news, on a -4..4 scale.
var defaultLexicon = map[string]float64{
	// positive
	"good": 1.9, "great": 3.1, "excellent": 2.7, "strong": 2.3, "stronger": 2.3,
	"record": 1.5, "growth": 1.8, "grow": 1.6, "grows": 1.6, "growing": 1.6,
	"gain": 1.9, "gains": 1.9, "profit": 1.9, "profits": 1.9, "profitable": 2.0,
	"beat": 1.4, "beats": 1.4, "surge": 1.9, "surges": 1.9, "surged": 1.9,
	"soar": 2.1, "soars": 2.1, "soared": 2.1, "rally": 1.7, "rallies": 1.7,
	"rise": 1.2, "rises": 1.2, "rising": 1.2, "up": 0.5, "boost": 1.7,
	"boosts": 1.7, "win": 2.8, "wins": 2.8, "won": 2.7, "success": 2.7,
	"successful": 2.8, "innovation": 1.9, "innovative": 2.0, "launch": 0.9,
	"launches": 0.9, "expand": 1.3, "expands": 1.3, "expansion": 1.3,
	"upgrade": 1.4, "upgraded": 1.4, "approve": 1.8, "approved": 1.8,
	"approval": 1.8, "partnership": 1.4, "breakthrough": 2.2, "best": 3.2,
	"positive": 2.6, "optimistic": 2.1, "optimism": 2.0, "improve": 1.9,
	"improved": 2.1, "improves": 1.9, "improvement": 2.0, "lead": 0.9,
	"leading": 1.2, "leader": 1.3, "popular": 1.8, "recover": 1.6,
	"recovery": 1.6, "robust": 1.8, "outperform": 1.8, "bullish": 2.0,
	"milestone": 1.6, "celebrate": 2.7, "praised": 2.4, "benefit": 2.0,
	"benefits": 1.9, "opportunity": 1.8, "opportunities": 1.8, "secure": 1.4,
	"confident": 2.2, "confidence": 2.1, "welcome": 2.0, "wonderful": 2.7,
	"impressive": 2.3, "love": 3.2, "happy": 2.7,

	// negative
	"bad": -2.5, "poor": -2.1, "weak": -1.9, "weaker": -1.9, "loss": -1.3,
	"losses": -1.3, "lose": -1.7, "loses": -1.7, "lost": -1.3, "decline": -1.5,
	"declines": -1.5, "declined": -1.5, "drop": -1.1, "drops": -1.1,
	"dropped": -1.1, "fall": -1.1, "falls": -1.1, "fell": -1.1, "plunge": -2.1,
	"plunges": -2.1, "plunged": -2.1, "slump": -1.9, "slumps": -1.9,
	"crash": -2.3, "crashes": -2.3, "recall": -1.4, "recalls": -1.4,
	"lawsuit": -1.8, "lawsuits": -1.8, "sue": -1.6, "sued": -1.6, "sues": -1.6,
	"fraud": -2.8, "scandal": -2.6, "probe": -1.2, "investigation": -1.3,
	"layoffs": -2.0, "layoff": -2.0, "cut": -1.1, "cuts": -1.1, "miss": -1.1,
	"misses": -1.1, "missed": -1.2, "fine": -0.8, "fined": -1.8, "penalty": -1.8,
	"concern": -1.4, "concerns": -1.4, "worried": -1.8, "worry": -1.9,
	"risk": -1.1, "risks": -1.1, "delay": -1.3, "delays": -1.3,
	"delayed": -1.3, "warning": -1.4, "warns": -1.4, "downgrade": -1.7,
	"downgraded": -1.7, "fail": -2.5, "fails": -2.5, "failed": -2.3,
	"failure": -2.3, "worst": -3.1, "crisis": -3.1, "threat": -2.4,
	"threatens": -2.4, "criticism": -1.9, "criticized": -1.9, "negative": -2.7,
	"bearish": -2.0, "struggle": -2.0, "struggles": -2.0, "struggling": -2.0,
	"halt": -1.4, "halted": -1.4, "ban": -2.6, "banned": -2.0, "accident": -2.1,
	"death": -2.9, "killed": -3.5, "injured": -2.1, "damage": -2.2,
	"breach": -1.8, "hack": -1.6, "hacked": -1.7, "volatile": -1.3,
	"uncertain": -1.2, "uncertainty": -1.4, "controversy": -1.7,
	"controversial": -1.6, "resign": -1.4, "resigns": -1.4, "debt": -1.5,
	"bankruptcy": -2.7, "problem": -1.7, "problems": -1.7, "issue": -0.7,
	"issues": -0.7, "angry": -2.3, "hate": -2.7,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nobody": true,
	"nothing": true, "neither": true, "nor": true, "without": true,
	"hardly": true, "barely": true, "cannot": true, "cant": true,
	"can't": true, "won't": true, "wont": true, "don't": true, "dont": true,
	"doesn't": true, "doesnt": true, "didn't": true, "didnt": true,
	"isn't": true, "isnt": true, "aren't": true, "wasn't": true,
	"weren't": true, "hasn't": true, "haven't": true, "shouldn't": true,
	"wouldn't": true, "couldn't": true,
}

var boosters = map[string]bool{
	"very": true, "extremely": true, "highly": true, "hugely": true,
	"significantly": true, "sharply": true, "substantially": true,
	"incredibly": true, "remarkably": true, "strongly": true, "deeply": true,
	"massive": true, "major": true, "most": true,
}

// LexiconScorer is a rule-based sentiment scorer: word valences, a booster
// for the next sentiment word, negation within a short window, and a
// normalized compound score in [-1, 1].
type LexiconScorer struct {
	lexicon map[string]float64
}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{lexicon: defaultLexicon}
}

// Score returns the compound sentiment of text.
func (s *LexiconScorer) Score(text string) float64 {
	words := words(text)
	var sum float64
	for i, w := range words {
		v, ok := s.lexicon[w]
		if !ok {
			continue
		}
		if i > 0 && boosters[words[i-1]] {
			if v > 0 {
				v += boosterIncr
			} else {
				v -= boosterIncr
			}
		}
		for j := i - 1; j >= 0 && j >= i-negationReach; j-- {
			if negations[words[j]] {
				v *= negationScale
				break
			}
		}
		sum += v
	}
	if sum == 0 {
		return 0
	}
	c := sum / math.Sqrt(sum*sum+alpha)
	return math.Max(-1, math.Min(1, c))
}

// Classify maps the compound score onto a label.
func (s *LexiconScorer) Classify(text string) analysis.Sentiment {
	c := s.Score(text)
	switch {
	case c > positiveThreshold:
		return analysis.Positive
	case c < negativeThreshold:
		return analysis.Negative
	default:
		return analysis.Neutral
	}
}

// words lowercases text and splits it into letter runs, keeping apostrophes
// inside words so contractions like "didn't" survive.
func words(text string) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		f = strings.ReplaceAll(f, "’", "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

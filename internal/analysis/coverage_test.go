package analysis

import (
	"strings"
	"testing"
)

func TestCompareTooFewArticles(t *testing.T) {
	if got := Compare(nil); len(got) != 0 {
		t.Errorf("expected no comparisons for 0 articles, got %d", len(got))
	}
	if got := Compare([]Article{art("a", Positive)}); len(got) != 0 {
		t.Errorf("expected no comparisons for 1 article, got %d", len(got))
	}
}

func TestCompareSkipsSameSentiment(t *testing.T) {
	articles := []Article{art("a", Negative), art("b", Negative), art("c", Negative)}
	if got := Compare(articles); len(got) != 0 {
		t.Errorf("expected no comparisons, got %v", got)
	}
}

func TestCompareWindowIsTwoSuccessors(t *testing.T) {
	// The first article differs from every other one, but the fourth is outside its window.
	articles := []Article{art("a", Positive), art("b", Neutral), art("c", Neutral), art("d", Neutral)}
	got := Compare(articles)
	// (0,1) and (0,2) differ, (1,2) (1,3) (2,3) do not.
	if len(got) != 2 {
		t.Fatalf("expected 2 comparisons, got %d: %v", len(got), got)
	}
	for _, d := range got {
		if strings.Contains(d.Comparison, "'d'") {
			t.Errorf("article 4 should not be paired with article 1: %q", d.Comparison)
		}
	}
}

func TestCompareCapKeepsScanOrder(t *testing.T) {
	articles := []Article{
		art("one", Positive, "A"),
		art("two", Negative, "B"),
		art("three", Positive, "C"),
		art("four", Negative, "D"),
		art("five", Positive, "E"),
	}
	got := Compare(articles)
	if len(got) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(got))
	}
	wantPrefixes := []string{
		"Article 'one' has positive sentiment, while 'two'",
		"Article 'two' has negative sentiment, while 'three'",
		"Article 'three' has positive sentiment, while 'four'",
	}
	for i, p := range wantPrefixes {
		if !strings.HasPrefix(got[i].Comparison, p) {
			t.Errorf("comparison %d = %q, want prefix %q", i, got[i].Comparison, p)
		}
	}
}

func TestCompareCandidateBound(t *testing.T) {
	for n := 2; n <= 12; n++ {
		articles := make([]Article, n)
		for i := range articles {
			if i%2 == 0 {
				articles[i] = art("p", Positive)
			} else {
				articles[i] = art("n", Negative)
			}
		}
		candidates := 0
		for i := 0; i < n-1; i++ {
			candidates += min(i+compareWindow, n-1) - i
		}
		if candidates > 2*n-3 {
			t.Errorf("n=%d: %d candidates exceeds 2n-3", n, candidates)
		}
		if got := Compare(articles); len(got) > maxDifferences {
			t.Errorf("n=%d: %d comparisons exceeds cap", n, len(got))
		}
	}
}

func TestCompareTitleTruncation(t *testing.T) {
	long := strings.Repeat("x", 45)
	got := Compare([]Article{art(long, Positive), art("short", Negative)})
	if len(got) != 1 {
		t.Fatalf("expected 1 comparison, got %d", len(got))
	}
	want := "Article '" + strings.Repeat("x", 40) + "...' has positive sentiment, while 'short' has negative sentiment."
	if got[0].Comparison != want {
		t.Errorf("comparison = %q, want %q", got[0].Comparison, want)
	}
}

func TestShortTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{strings.Repeat("a", 41), strings.Repeat("a", 40) + "..."},
		{strings.Repeat("é", 42), strings.Repeat("é", 40) + "..."},
	}
	for _, tt := range tests {
		if got := shortTitle(tt.input); got != tt.want {
			t.Errorf("shortTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestImpactStatements(t *testing.T) {
	tests := []struct {
		name string
		a, b Article
		want string
	}{
		{
			"positive then negative",
			art("a", Positive, "Earnings", "Cloud", "AI"),
			art("b", Negative, "Layoffs", "Lawsuit", "Debt"),
			"The positive news about Earnings, Cloud is offset by concerns regarding Layoffs, Lawsuit.",
		},
		{
			"negative then positive",
			art("a", Negative, "Recall"),
			art("b", Positive, "Sales", "Margins"),
			"While there are concerns about Recall, positive developments in Sales, Margins may balance the overall impact.",
		},
		{
			"neutral pair",
			art("a", Neutral, "Board"),
			art("b", Positive, "Dividend"),
			"The articles present different perspectives on Board, Dividend.",
		},
		{
			"neutral pair sharing first topic",
			art("a", Negative, "Board"),
			art("b", Neutral, "Board", "Vote"),
			"The articles present different perspectives on Board.",
		},
		{
			"empty topics degrade",
			art("a", Positive),
			art("b", Negative),
			"The positive news about  is offset by concerns regarding .",
		},
		{
			"neutral with no topics",
			art("a", Neutral),
			art("b", Negative),
			"The articles present different perspectives on .",
		},
	}
	for _, tt := range tests {
		if got := impact(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: impact = %q, want %q", tt.name, got, tt.want)
		}
	}
}

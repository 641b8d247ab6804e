package analysis

import "testing"

func TestVerdictPrecedence(t *testing.T) {
	articles := []Article{art("a", Positive, "Battery", "Cars")}
	tests := []struct {
		name string
		dist Distribution
		want string
	}{
		{"predominantly positive", Distribution{Positive: 3, Negative: 1},
			"Coverage is predominantly positive. Positive news about Battery is particularly noteworthy."},
		{"significant concerns", Distribution{Negative: 4, Positive: 1, Neutral: 2},
			"Coverage shows significant concerns, particularly regarding Battery."},
		{"cautiously positive", Distribution{Positive: 2, Negative: 1, Neutral: 1},
			"Coverage is cautiously positive, with some concerns noted about Battery."},
		{"leans negative", Distribution{Positive: 1, Negative: 2, Neutral: 2},
			"Coverage leans negative, though there are some positive developments in Battery."},
		{"tie", Distribution{Positive: 2, Negative: 2},
			"Coverage is mixed or neutral, with balanced perspectives on Battery."},
		{"all neutral", Distribution{Neutral: 5},
			"Coverage is mixed or neutral, with balanced perspectives on Battery."},
		// Positive also exceeds negative here; the earlier rule must win.
		{"first rule wins over third", Distribution{Positive: 5, Negative: 1, Neutral: 1},
			"Coverage is predominantly positive. Positive news about Battery is particularly noteworthy."},
	}
	for _, tt := range tests {
		if got := Verdict(tt.dist, articles); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestVerdictAnchorAlwaysFirstArticle(t *testing.T) {
	// The negative article carries the topic of the winning bucket, but the
	// anchor still comes from the first article.
	articles := []Article{
		art("a", Positive, "Earnings"),
		art("b", Negative, "Lawsuit"),
		art("c", Negative, "Recall"),
		art("d", Negative, "Layoffs"),
	}
	got := Verdict(Distribution{Positive: 1, Negative: 3}, articles)
	want := "Coverage shows significant concerns, particularly regarding Earnings."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVerdictFallbackAnchor(t *testing.T) {
	articles := []Article{art("a", Positive), art("b", Positive, "Ignored")}
	got := Verdict(Distribution{Positive: 2}, articles)
	want := "Coverage is predominantly positive. Positive news about the company is particularly noteworthy."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

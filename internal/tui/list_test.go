package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "Jun 15" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "Jun 15")
	}
}

func TestFilterArticles(t *testing.T) {
	articles := []analysis.Article{
		{Title: "a", Sentiment: analysis.Positive},
		{Title: "b", Sentiment: analysis.Negative},
		{Title: "c", Sentiment: analysis.Neutral},
		{Title: "d", Sentiment: analysis.Positive},
	}

	tests := []struct {
		labels []string
		want   string
	}{
		{nil, "abcd"},
		{[]string{"Positive"}, "ad"},
		{[]string{"Negative", "Neutral"}, "bc"},
		{[]string{}, ""},
	}
	for _, tt := range tests {
		var got string
		for _, a := range filterArticles(articles, tt.labels) {
			got += a.Title
		}
		if got != tt.want {
			t.Errorf("filterArticles(%v) = %q, want %q", tt.labels, got, tt.want)
		}
	}
}

func TestFilterBarToggle(t *testing.T) {
	f := newFilterBar()
	if f.activeLabels() != nil || f.activeLabel() != "All" {
		t.Fatalf("new filter bar should select everything")
	}
	f.filterCursor = 1
	f.toggleCurrent()
	f.toggle("Positive")
	if got := f.activeLabel(); got != "Positive, Negative" {
		t.Errorf("activeLabel = %q", got)
	}
	f.toggle("Positive")
	f.toggle("Negative")
	if f.activeLabels() != nil {
		t.Errorf("expected all after clearing, got %v", f.activeLabels())
	}
}

func TestFilterBarRenderFitsWidth(t *testing.T) {
	f := newFilterBar()
	wide := f.render(120)
	for _, label := range []string{"All", "Positive", "Negative", "Neutral"} {
		if !strings.Contains(wide, label) {
			t.Errorf("wide bar missing %q: %q", label, wide)
		}
	}

	narrow := f.render(20)
	if !strings.Contains(narrow, "Positive") || strings.Contains(narrow, "Negative") {
		t.Errorf("narrow bar should stop before overflowing: %q", narrow)
	}
}

func TestBar(t *testing.T) {
	if got := bar(1, 4, 8); got != "██░░░░░░" {
		t.Errorf("bar(1,4) = %q", got)
	}
	if got := bar(0, 0, 4); got != "░░░░" {
		t.Errorf("bar(0,0) = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wrapText = %q", got)
	}
	if wrapText("   ", 5) != "" {
		t.Error("expected empty wrap for blank text")
	}
}

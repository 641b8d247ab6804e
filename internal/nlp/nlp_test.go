package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/matheuskafuri/newsvoice/internal/feed"
	"github.com/matheuskafuri/newsvoice/internal/logger"
)

func TestLexiconClassify(t *testing.T) {
	s := NewLexiconScorer()
	tests := []struct {
		text string
		want analysis.Sentiment
	}{
		{"Tesla posts record profits and strong growth", analysis.Positive},
		{"Regulators open probe into fatal crash; shares plunge", analysis.Negative},
		{"The company will hold its annual meeting on Tuesday", analysis.Neutral},
		{"Results were not good this quarter", analysis.Negative},
		{"The launch didn't fail", analysis.Positive},
		{"", analysis.Neutral},
	}
	for _, tt := range tests {
		if got := s.Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s (score %.3f), want %s", tt.text, got, s.Score(tt.text), tt.want)
		}
	}
}

func TestLexiconBoosterAndBounds(t *testing.T) {
	s := NewLexiconScorer()
	if s.Score("very good") <= s.Score("good") {
		t.Error("booster should increase the score")
	}
	if s.Score("very bad") >= s.Score("bad") {
		t.Error("booster should make negative scores more negative")
	}
	c := s.Score(strings.Repeat("great ", 50))
	if c > 1 || c < 0.99 {
		t.Errorf("expected compound close to 1, got %f", c)
	}
}

func TestTagCapitalisedPhrasesFirst(t *testing.T) {
	tagger := NewKeywordTagger(3)
	got := tagger.Tag("Tesla reported record deliveries in China. Analysts expect Model Y demand to grow.")
	want := []string{"China", "Model Y", "Tesla"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Tag = %v, want %v", got, want)
	}
}

func TestTagDedupesCaseInsensitively(t *testing.T) {
	got := NewKeywordTagger(3).Tag("Apple apple APPLE")
	if len(got) != 1 || got[0] != "Apple" {
		t.Errorf("expected [Apple], got %v", got)
	}
}

func TestTagSkipsShortWords(t *testing.T) {
	got := NewKeywordTagger(3).Tag("Go is fun")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil topics, got %#v", got)
	}
}

func TestTagLimit(t *testing.T) {
	got := NewKeywordTagger(2).Tag("Microsoft and Google compete with Amazon over Nvidia chips")
	if len(got) != 2 {
		t.Errorf("expected 2 topics, got %v", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"NASA moon MISSION": "Nasa Moon Mission",
		"electric vehicles": "Electric Vehicles",
		"":                  "",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripArticle(t *testing.T) {
	tests := map[string]string{
		"The Market":  "Market",
		"An Offer":    "Offer",
		"A Deal":      "Deal",
		"Theory Test": "Theory Test",
	}
	for in, want := range tests {
		if got := stripArticle(in); got != want {
			t.Errorf("stripArticle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalUsesTitleWhenSummaryEmpty(t *testing.T) {
	a, err := NewLocal().Annotate(context.Background(), "Huge success for Boeing", "")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if a.Sentiment != analysis.Positive {
		t.Errorf("expected Positive from title, got %s", a.Sentiment)
	}
}

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("SENTIMENT: negative\nTOPICS: recalls, Safety, recalls, Model 3, Regulators")
	if err != nil {
		t.Fatalf("parseAnnotation: %v", err)
	}
	if a.Sentiment != analysis.Negative {
		t.Errorf("expected Negative, got %s", a.Sentiment)
	}
	want := "Recalls|Safety|Model 3"
	if got := strings.Join(a.Topics, "|"); got != want {
		t.Errorf("topics = %s, want %s", got, want)
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	if _, err := parseAnnotation("TOPICS: a, b"); err == nil {
		t.Error("expected error without SENTIMENT line")
	}
	_, err := parseAnnotation("SENTIMENT: Mixed")
	if !errors.Is(err, analysis.ErrInvalidSentimentLabel) {
		t.Errorf("expected ErrInvalidSentimentLabel, got %v", err)
	}
}

func TestLLMClaudeRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if !strings.Contains(req.Messages[0].Content, "Title: Ford recalls trucks") {
			t.Errorf("prompt missing title: %q", req.Messages[0].Content)
		}
		fmt.Fprint(w, `{"content":[{"text":"SENTIMENT: Negative\nTOPICS: Recall, Trucks"}]}`)
	}))
	defer srv.Close()

	llm, err := NewLLM(&config.AIConfig{Provider: "claude"}, "secret", srv.URL)
	if err != nil {
		t.Fatalf("NewLLM: %v", err)
	}
	a, err := llm.Annotate(context.Background(), "Ford recalls trucks", "Brake issue")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if a.Sentiment != analysis.Negative || len(a.Topics) != 2 {
		t.Errorf("unexpected annotation %+v", a)
	}
}

func TestLLMOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	llm, err := NewLLM(&config.AIConfig{Provider: "openai"}, "k", srv.URL)
	if err != nil {
		t.Fatalf("NewLLM: %v", err)
	}
	if _, err := llm.Annotate(context.Background(), "t", "s"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestNewLLMRejectsUnknownProvider(t *testing.T) {
	if _, err := NewLLM(&config.AIConfig{Provider: "bard"}, "k", ""); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewLLM(&config.AIConfig{Provider: "claude"}, "", ""); err == nil {
		t.Error("expected error without key")
	}
}

type stubAnnotator struct {
	calls atomic.Int32
	fn    func(title string) (Annotation, error)
}

func (s *stubAnnotator) Annotate(_ context.Context, title, _ string) (Annotation, error) {
	s.calls.Add(1)
	return s.fn(title)
}

func TestWithFallback(t *testing.T) {
	primary := &stubAnnotator{fn: func(string) (Annotation, error) {
		return Annotation{}, errors.New("down")
	}}
	secondary := &stubAnnotator{fn: func(string) (Annotation, error) {
		return Annotation{Sentiment: analysis.Neutral}, nil
	}}
	a := WithFallback(primary, secondary, logger.Discard())

	got, err := a.Annotate(context.Background(), "t", "s")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got.Sentiment != analysis.Neutral || secondary.calls.Load() != 1 {
		t.Errorf("expected fallback to answer, got %+v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Annotate(ctx, "t", "s"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if secondary.calls.Load() != 1 {
		t.Error("fallback should not run after cancellation")
	}
}

func TestAnnotateAllKeepsOrder(t *testing.T) {
	stub := &stubAnnotator{fn: func(title string) (Annotation, error) {
		// later items finish first
		d := time.Duration(10-len(title)) * time.Millisecond
		time.Sleep(d)
		return Annotation{Sentiment: analysis.Positive}, nil
	}}
	var items []feed.Item
	for i := 1; i <= 6; i++ {
		items = append(items, feed.Item{Title: strings.Repeat("x", i), Summary: "s", Link: fmt.Sprint(i)})
	}

	arts, err := AnnotateAll(context.Background(), stub, items, 3)
	if err != nil {
		t.Fatalf("AnnotateAll: %v", err)
	}
	for i, a := range arts {
		if a.Title != items[i].Title || a.Link != items[i].Link {
			t.Errorf("article %d out of order: %+v", i, a)
		}
		if a.Topics == nil {
			t.Errorf("article %d: topics should be non-nil", i)
		}
	}
}

func TestAnnotateAllPropagatesError(t *testing.T) {
	stub := &stubAnnotator{fn: func(title string) (Annotation, error) {
		if title == "bad" {
			return Annotation{}, errors.New("boom")
		}
		return Annotation{Sentiment: analysis.Neutral}, nil
	}}
	items := []feed.Item{{Title: "ok"}, {Title: "bad"}, {Title: "ok2"}}
	if _, err := AnnotateAll(context.Background(), stub, items, 2); err == nil {
		t.Fatal("expected error")
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("NEWSVOICE_AI_KEY", "")
	log := logger.Discard()

	a, err := FromConfig(&config.Config{}, log)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if _, ok := a.(*Local); !ok {
		t.Errorf("expected *Local, got %T", a)
	}

	cfg := &config.Config{Annotator: "claude", AI: &config.AIConfig{}}
	a, _ = FromConfig(cfg, log)
	if _, ok := a.(*Local); !ok {
		t.Errorf("expected *Local without key, got %T", a)
	}

	cfg.AI.APIKey = "k"
	a, err = FromConfig(cfg, log)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if _, ok := a.(*fallback); !ok {
		t.Errorf("expected fallback annotator, got %T", a)
	}
}

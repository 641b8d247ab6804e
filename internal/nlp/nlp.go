// Package nlp assigns a sentiment label and a few topics to each news item.
package nlp

import (
	"context"
	"strings"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/matheuskafuri/newsvoice/internal/feed"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Annotation is what an Annotator says about one article.
type Annotation struct {
	Sentiment analysis.Sentiment
	Topics    []string
}

type Annotator interface {
	Annotate(ctx context.Context, title, summary string) (Annotation, error)
}

// Local annotates offline with a lexicon scorer and a keyword tagger.
type Local struct {
	Scorer *LexiconScorer
	Tagger *KeywordTagger
}

func NewLocal() *Local {
	return &Local{Scorer: NewLexiconScorer(), Tagger: NewKeywordTagger(3)}
}

// Annotate scores and tags the summary, or the title when there is no
// usable summary.
func (l *Local) Annotate(_ context.Context, title, summary string) (Annotation, error) {
	text := summary
	if strings.TrimSpace(text) == "" {
		text = title
	}
	return Annotation{
		Sentiment: l.Scorer.Classify(text),
		Topics:    l.Tagger.Tag(text),
	}, nil
}

// FromConfig builds the configured annotator. LLM annotators fall back to
// the local one on error; without an API key the local one is used directly.
func FromConfig(cfg *config.Config, log logrus.FieldLogger) (Annotator, error) {
	local := NewLocal()
	if cfg.AnnotatorName() == "local" {
		return local, nil
	}
	if !cfg.AIEnabled() {
		log.WithField("annotator", cfg.AnnotatorName()).Warn("no API key set, using local annotator")
		return local, nil
	}
	ai := *cfg.AI
	if ai.Provider == "" {
		ai.Provider = cfg.AnnotatorName()
	}
	llm, err := NewLLM(&ai, cfg.AIKey(), "")
	if err != nil {
		return nil, err
	}
	return WithFallback(llm, local, log), nil
}

type fallback struct {
	primary  Annotator
	fallback Annotator
	log      logrus.FieldLogger
}

// WithFallback returns an Annotator that tries primary first and falls back
// when it errors.
func WithFallback(primary, secondary Annotator, log logrus.FieldLogger) Annotator {
	return &fallback{primary: primary, fallback: secondary, log: log}
}

func (f *fallback) Annotate(ctx context.Context, title, summary string) (Annotation, error) {
	a, err := f.primary.Annotate(ctx, title, summary)
	if err == nil {
		return a, nil
	}
	if ctx.Err() != nil {
		return Annotation{}, ctx.Err()
	}
	if f.log != nil {
		f.log.WithError(err).WithField("title", title).Warn("annotator failed, using fallback")
	}
	return f.fallback.Annotate(ctx, title, summary)
}

// AnnotateAll annotates items with at most workers concurrent calls and
// returns articles in input order.
func AnnotateAll(ctx context.Context, a Annotator, items []feed.Item, workers int) ([]analysis.Article, error) {
	if workers <= 0 {
		workers = 4
	}
	out := make([]analysis.Article, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, it := range items {
		g.Go(func() error {
			ann, err := a.Annotate(gctx, it.Title, it.Summary)
			if err != nil {
				return err
			}
			topics := ann.Topics
			if topics == nil {
				topics = []string{}
			}
			out[i] = analysis.Article{
				Title:     it.Title,
				Summary:   it.Summary,
				Sentiment: ann.Sentiment,
				Topics:    topics,
				Link:      it.Link,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

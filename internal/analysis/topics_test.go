package analysis

import (
	"reflect"
	"testing"
)

func TestTopicFrequencyCountsArticlesNotOccurrences(t *testing.T) {
	articles := []Article{
		{Topics: []string{"Earnings", "Earnings", "Cloud"}},
		{Topics: []string{"Earnings"}},
		{Topics: nil},
	}
	freq := TopicFrequency(articles)
	if freq["Earnings"] != 2 {
		t.Errorf("Earnings frequency = %d, want 2", freq["Earnings"])
	}
	if freq["Cloud"] != 1 {
		t.Errorf("Cloud frequency = %d, want 1", freq["Cloud"])
	}
	if len(freq) != 2 {
		t.Errorf("expected 2 distinct topics, got %d", len(freq))
	}
}

func TestOverlapFirstSeenOrder(t *testing.T) {
	articles := []Article{
		{Topics: []string{"Zeta", "Alpha", "Solo"}},
		{Topics: []string{"Alpha", "Mid"}},
		{Topics: []string{"Mid", "Zeta"}},
	}
	o := Overlap(articles)

	want := []string{"Zeta", "Alpha", "Mid"}
	if !reflect.DeepEqual(o.CommonTopics, want) {
		t.Errorf("common topics = %v, want %v (first-seen, not sorted)", o.CommonTopics, want)
	}

	if len(o.UniqueTopics) != 3 {
		t.Fatalf("expected an entry per article, got %d", len(o.UniqueTopics))
	}
	if got, _ := o.UniqueTopics.Get("Article 1"); !reflect.DeepEqual(got, []string{"Solo"}) {
		t.Errorf("Article 1 unique = %v", got)
	}
	for _, label := range []string{"Article 2", "Article 3"} {
		got, ok := o.UniqueTopics.Get(label)
		if !ok {
			t.Errorf("missing entry for %s", label)
		}
		if len(got) != 0 {
			t.Errorf("%s unique = %v, want empty", label, got)
		}
	}
}

func TestOverlapNoTopics(t *testing.T) {
	o := Overlap([]Article{{Title: "a"}, {Title: "b"}})
	if len(o.CommonTopics) != 0 {
		t.Errorf("expected empty common topics, got %v", o.CommonTopics)
	}
	for _, e := range o.UniqueTopics {
		if len(e.Topics) != 0 {
			t.Errorf("%s: expected no unique topics, got %v", e.Label, e.Topics)
		}
	}
}

func TestOverlapPartition(t *testing.T) {
	articles := []Article{
		{Topics: []string{"A", "B", "C"}},
		{Topics: []string{"B", "D"}},
		{Topics: []string{"E", "A", "F"}},
		{Topics: []string{"G"}},
	}
	o := Overlap(articles)
	freq := TopicFrequency(articles)

	placed := map[string]int{}
	for _, topic := range o.CommonTopics {
		placed[topic]++
	}
	for _, e := range o.UniqueTopics {
		for _, topic := range e.Topics {
			placed[topic]++
		}
	}
	for topic, f := range freq {
		if placed[topic] != 1 {
			t.Errorf("topic %q (freq %d) placed %d times, want exactly once", topic, f, placed[topic])
		}
	}
}

func TestUniqueTopicsKeepsArticleOrderInJSON(t *testing.T) {
	articles := make([]Article, 11)
	o := Overlap(articles)
	data, err := o.UniqueTopics.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	want := `{"Article 1":[],"Article 2":[],"Article 3":[],"Article 4":[],"Article 5":[],"Article 6":[],"Article 7":[],"Article 8":[],"Article 9":[],"Article 10":[],"Article 11":[]}`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}

	var back UniqueTopics
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 11 || back[9].Label != "Article 10" {
		t.Errorf("decoded order lost: %v", back)
	}
}

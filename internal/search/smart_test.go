package search

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/graph"
)

// fakeIndex returns canned hits keyed by the exact built match query.
type fakeIndex struct {
	hits  map[string][]graph.Node
	errOn map[string]bool
}

func (f *fakeIndex) SearchNodes(matchQuery, _ string, _ int) ([]graph.Node, error) {
	if f.errOn[matchQuery] {
		return nil, errors.New("index unavailable")
	}
	return f.hits[matchQuery], nil
}

func hit(id string) []graph.Node {
	return []graph.Node{{ID: id, Type: graph.TypeRecipe}}
}

func TestSmartSearch_OriginalWins(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"chicken* soup*": hit("r1")}}
	s := NewSmart(idx, nil, nil)

	res, err := s.Search(context.Background(), "chicken soup", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyOriginal {
		t.Errorf("strategy = %s, want original", res.Strategy)
	}
	if res.SimilarityScore != 1.0 {
		t.Errorf("score = %v, want 1.0", res.SimilarityScore)
	}
	if res.EffectiveQuery != "chicken soup" {
		t.Errorf("effective = %q", res.EffectiveQuery)
	}
	if len(res.Results) != 1 || res.Results[0].ID != "r1" {
		t.Errorf("results = %+v", res.Results)
	}
}

func TestSmartSearch_WordBreakdown(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"chicken*": hit("r1")}}
	s := NewSmart(idx, nil, nil)

	res, err := s.Search(context.Background(), "chicken nosuchword", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyWordBreakdown {
		t.Errorf("strategy = %s, want word-breakdown", res.Strategy)
	}
	if res.EffectiveQuery != "chicken" {
		t.Errorf("effective = %q, want chicken", res.EffectiveQuery)
	}
	// First word of two: 0.8 - 0*0.1/2.
	if res.SimilarityScore != 0.8 {
		t.Errorf("score = %v, want 0.8", res.SimilarityScore)
	}
}

func TestSmartSearch_WordBreakdownLaterWordScoresLower(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"chicken*": hit("r1")}}
	s := NewSmart(idx, nil, nil)

	res, err := s.Search(context.Background(), "nosuchword chicken", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyWordBreakdown {
		t.Errorf("strategy = %s", res.Strategy)
	}
	// Second word of two: 0.8 - 1*0.1/2 = 0.75.
	if res.SimilarityScore != 0.75 {
		t.Errorf("score = %v, want 0.75", res.SimilarityScore)
	}
}

func TestSmartSearch_WordCombination(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"bb* cc*": hit("r1")}}
	s := NewSmart(idx, nil, nil)

	res, err := s.Search(context.Background(), "aa bb cc", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyWordCombination {
		t.Errorf("strategy = %s, want word-combination", res.Strategy)
	}
	if res.EffectiveQuery != "bb cc" {
		t.Errorf("effective = %q, want \"bb cc\"", res.EffectiveQuery)
	}
	// Length 2 of 3 words: 0.5 + 2/3*0.3 = 0.7.
	if res.SimilarityScore != 0.7 {
		t.Errorf("score = %v, want 0.7", res.SimilarityScore)
	}
}

func TestSmartSearch_PrefixShrink(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"chi*": hit("r1")}}
	s := NewSmart(idx, nil, nil)

	res, err := s.Search(context.Background(), "chick", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyPrefixShrink {
		t.Errorf("strategy = %s, want prefix-shrink", res.Strategy)
	}
	if res.EffectiveQuery != "chi" {
		t.Errorf("effective = %q, want chi", res.EffectiveQuery)
	}
	// 3 of 5 runes: 0.2 + 3/5*0.3 = 0.38.
	if res.SimilarityScore != 0.38 {
		t.Errorf("score = %v, want 0.38", res.SimilarityScore)
	}
}

func TestSmartSearch_GenericFallback(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"recipe*": hit("r1")}}
	s := NewSmart(idx, nil, nil)

	// Three runes, so prefix shrinking is skipped and the cascade lands on the
	// generic terms.
	res, err := s.Search(context.Background(), "zzz", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyGenericFallback {
		t.Errorf("strategy = %s, want generic-fallback", res.Strategy)
	}
	if res.EffectiveQuery != "recipe" {
		t.Errorf("effective = %q, want recipe", res.EffectiveQuery)
	}
	if res.SimilarityScore != 0.15 {
		t.Errorf("score = %v, want 0.15", res.SimilarityScore)
	}
}

func TestSmartSearch_Exhausted(t *testing.T) {
	s := NewSmart(&fakeIndex{}, nil, nil)

	res, err := s.Search(context.Background(), "zzz", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyNone {
		t.Errorf("strategy = %s, want none", res.Strategy)
	}
	if res.SimilarityScore != 0.0 {
		t.Errorf("score = %v, want 0.0", res.SimilarityScore)
	}
	if res.EffectiveQuery != "" {
		t.Errorf("effective = %q, want empty", res.EffectiveQuery)
	}
	if res.Results == nil || len(res.Results) != 0 {
		t.Errorf("results = %v, want empty non-nil", res.Results)
	}
}

func TestSmartSearch_EmptyQuery(t *testing.T) {
	s := NewSmart(&fakeIndex{}, nil, nil)
	_, err := s.Search(context.Background(), "   ", "", 10)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSmartSearch_AttemptErrorSkipped(t *testing.T) {
	idx := &fakeIndex{
		hits:  map[string][]graph.Node{"chicken*": hit("r1")},
		errOn: map[string]bool{"chicken* soup*": true},
	}
	s := NewSmart(idx, nil, nil)

	res, err := s.Search(context.Background(), "chicken soup", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyWordBreakdown {
		t.Errorf("strategy = %s, want word-breakdown after original errored", res.Strategy)
	}
}

func TestSmartSearch_CustomFallbackTerms(t *testing.T) {
	idx := &fakeIndex{hits: map[string][]graph.Node{"pasta*": hit("r1")}}
	s := NewSmart(idx, []string{"pasta"}, nil)

	res, err := s.Search(context.Background(), "zzz", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Strategy != StrategyGenericFallback || res.EffectiveQuery != "pasta" {
		t.Errorf("strategy = %s effective = %q", res.Strategy, res.EffectiveQuery)
	}
}

func TestAttemptsOrdering(t *testing.T) {
	s := NewSmart(&fakeIndex{}, nil, nil)
	attempts := s.attempts("chicken soup bowl")

	if attempts[0].strategy != StrategyOriginal || attempts[0].score != 1.0 {
		t.Fatalf("first attempt = %+v, want original/1.0", attempts[0])
	}

	// Strategies appear in cascade order and never interleave.
	rank := map[string]int{
		StrategyOriginal:        0,
		StrategyWordBreakdown:   1,
		StrategyWordCombination: 2,
		StrategyPrefixShrink:    3,
		StrategyGenericFallback: 4,
	}
	last := 0
	seen := map[string]bool{}
	for _, a := range attempts {
		r, ok := rank[a.strategy]
		if !ok {
			t.Fatalf("unknown strategy %q", a.strategy)
		}
		if r < last {
			t.Fatalf("strategy %s out of cascade order", a.strategy)
		}
		last = r
		seen[a.strategy] = true
		if a.score < 0 || a.score > 1 {
			t.Errorf("score out of range: %+v", a)
		}
	}
	for _, want := range []string{StrategyOriginal, StrategyWordBreakdown, StrategyWordCombination, StrategyPrefixShrink, StrategyGenericFallback} {
		if !seen[want] {
			t.Errorf("strategy %s missing from cascade", want)
		}
	}
}

func TestAttemptsCombinationLongestFirst(t *testing.T) {
	s := NewSmart(&fakeIndex{}, nil, nil)
	var combos []attempt
	for _, a := range s.attempts("a b c d") {
		if a.strategy == StrategyWordCombination {
			combos = append(combos, a)
		}
	}
	want := []string{"a b c", "b c d", "a b", "b c", "c d"}
	if len(combos) != len(want) {
		t.Fatalf("combos = %d, want %d", len(combos), len(want))
	}
	for i, w := range want {
		if combos[i].query != w {
			t.Errorf("combo[%d] = %q, want %q", i, combos[i].query, w)
		}
	}
	if combos[0].score <= combos[len(combos)-1].score {
		t.Errorf("longer combinations should score higher: %v vs %v",
			combos[0].score, combos[len(combos)-1].score)
	}
}

func TestSearcher_NoMatchIsEmptyNotError(t *testing.T) {
	s := NewSearcher(&fakeIndex{})
	res, err := s.Search(context.Background(), "nothing here", "", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Results == nil || len(res.Results) != 0 {
		t.Errorf("results = %v, want empty non-nil", res.Results)
	}
	if res.EffectiveQuery != "nothing* here*" {
		t.Errorf("effective = %q", res.EffectiveQuery)
	}
}

func TestRound2(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{
		{0.755, 0.76},
		{0.38, 0.38},
		{1.0 / 3.0, 0.33},
	} {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/graph"
)

// Relaxation strategies in the order they are attempted.
const (
	StrategyOriginal        = "original"
	StrategyWordBreakdown   = "word-breakdown"
	StrategyWordCombination = "word-combination"
	StrategyPrefixShrink    = "prefix-shrink"
	StrategyGenericFallback = "generic-fallback"
	StrategyNone            = "none"
)

// DefaultFallbackTerms are the domain-generic terms tried when every other
// strategy is exhausted.
var DefaultFallbackTerms = []string{"recipe", "dish", "food", "cooking", "meal"}

// SmartResult carries the winning attempt of the relaxation cascade.
// SimilarityScore is a confidence heuristic in [0,1], not a true string
// similarity: 1.0 for a literal match, shrinking with each looser strategy.
type SmartResult struct {
	Query           string       `json:"query"`
	EffectiveQuery  string       `json:"effectiveQuery"`
	Strategy        string       `json:"strategy"`
	SimilarityScore float64      `json:"similarityScore"`
	Results         []graph.Node `json:"results"`
}

// Smart degrades a failed search through successively looser strategies until
// one returns results or all are exhausted. It never merges partial results
// across strategies.
type Smart struct {
	searcher      *Searcher
	fallbackTerms []string
	logger        *slog.Logger
}

// NewSmart creates a Smart searcher. Empty fallbackTerms selects
// DefaultFallbackTerms; a nil logger disables attempt logging.
func NewSmart(idx Index, fallbackTerms []string, logger *slog.Logger) *Smart {
	if len(fallbackTerms) == 0 {
		fallbackTerms = DefaultFallbackTerms
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Smart{searcher: NewSearcher(idx), fallbackTerms: fallbackTerms, logger: logger}
}

// attempt is one (query, strategy, score) candidate in the cascade.
type attempt struct {
	query    string
	strategy string
	score    float64
}

// Search runs the cascade and stops at the first attempt returning at least
// one result. Individual attempts that error count as empty and the cascade
// moves on; only an entirely empty original query errors.
func (s *Smart) Search(ctx context.Context, query, nodeType string, limit int) (*SmartResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search: empty query: %w", apperr.ErrInvalidArgument)
	}

	for _, a := range s.attempts(query) {
		res, err := s.searcher.Search(ctx, a.query, nodeType, limit)
		if err != nil {
			s.logger.Debug("smart search attempt failed",
				slog.String("strategy", a.strategy),
				slog.String("query", a.query),
				slog.String("error", err.Error()))
			continue
		}
		if len(res.Results) == 0 {
			continue
		}
		s.logger.Debug("smart search matched",
			slog.String("strategy", a.strategy),
			slog.String("query", a.query),
			slog.Int("results", len(res.Results)))
		return &SmartResult{
			Query:           query,
			EffectiveQuery:  a.query,
			Strategy:        a.strategy,
			SimilarityScore: round2(a.score),
			Results:         res.Results,
		}, nil
	}

	return &SmartResult{
		Query:           query,
		EffectiveQuery:  "",
		Strategy:        StrategyNone,
		SimilarityScore: 0.0,
		Results:         []graph.Node{},
	}, nil
}

// attempts builds the full ordered candidate list for a query.
func (s *Smart) attempts(query string) []attempt {
	words := strings.Fields(query)
	n := len(words)
	out := []attempt{{query: query, strategy: StrategyOriginal, score: 1.0}}

	// Word breakdown: each word alone, left to right. Earlier words score
	// higher, floored at 0.6.
	if n > 1 {
		for i, w := range words {
			score := 0.8 - float64(i)*0.1/float64(n)
			if score < 0.6 {
				score = 0.6
			}
			out = append(out, attempt{query: w, strategy: StrategyWordBreakdown, score: score})
		}
	}

	// Word combination: contiguous substrings, longest and leftmost first.
	if n > 2 {
		for length := n - 1; length >= 2; length-- {
			for start := 0; start+length <= n; start++ {
				out = append(out, attempt{
					query:    strings.Join(words[start:start+length], " "),
					strategy: StrategyWordCombination,
					score:    0.5 + float64(length)/float64(n)*0.3,
				})
			}
		}
	}

	// Prefix shrinking: each word longer than 3 runes, prefixes from 70% of
	// the length down to 3 characters.
	for _, w := range words {
		runes := []rune(w)
		wlen := len(runes)
		if wlen <= 3 {
			continue
		}
		start := int(math.Floor(float64(wlen) * 0.7))
		if start < 3 {
			start = 3
		}
		for l := start; l >= 3; l-- {
			out = append(out, attempt{
				query:    string(runes[:l]),
				strategy: StrategyPrefixShrink,
				score:    0.2 + float64(l)/float64(wlen)*0.3,
			})
		}
	}

	// Generic fallback terms, in list order.
	for i, term := range s.fallbackTerms {
		score := 0.15 - float64(i)*0.02
		if score < 0.05 {
			score = 0.05
		}
		out = append(out, attempt{query: term, strategy: StrategyGenericFallback, score: score})
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package knowledge

import (
	"sort"
	"strings"
)

// Default search parameters applied by callers that do not override them.
const (
	DefaultLimit    = 10
	DefaultMinScore = 0.1
)

// Per-word match weights. These values are fixed behavioral constants:
// downstream consumers pin result ordering, so they must not be tuned.
const (
	weightQuestionExact   = 0.5
	weightQuestionPartial = 0.3
	weightAnswerExact     = 0.2
	weightKeywordExact    = 0.4
	weightKeywordPartial  = 0.25
)

// SearchOptions configures a query. A zero Limit falls back to DefaultLimit;
// MinScore is used as given (0 keeps zero-scoring entries out only because
// the density multiplier never lifts a no-match entry above 0).
type SearchOptions struct {
	Category *Category
	Limit    int
	MinScore float64
}

// DefaultSearchOptions returns the options used when the caller supplies none.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{Limit: DefaultLimit, MinScore: DefaultMinScore}
}

// Result is a transient per-query match. Entry is a value copy; Score is
// non-negative; MatchedKeywords lists the query words that matched anything,
// deduplicated, in query order.
type Result struct {
	Entry           Entry    `json:"entry"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// Searcher ranks store entries against free-text queries. It is stateless:
// each call reads a consistent snapshot from the store and computes scores
// from scratch.
type Searcher struct {
	store *Store
}

// NewSearcher creates a searcher over the given store.
func NewSearcher(store *Store) *Searcher {
	return &Searcher{store: store}
}

// Search tokenizes the query, scores every candidate entry, filters by
// MinScore, and returns up to Limit results sorted descending by score.
// Ties keep store insertion order (the candidate list is already in that
// order and the sort is stable).
func (s *Searcher) Search(query string, opts SearchOptions) []Result {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	words := Tokenize(query)

	var candidates []Entry
	if opts.Category != nil {
		candidates = s.store.ByCategory(*opts.Category)
	} else {
		candidates = s.store.All()
	}

	var results []Result
	for _, entry := range candidates {
		score, matched := scoreEntry(entry, words)
		if score < opts.MinScore {
			continue
		}
		results = append(results, Result{
			Entry:           entry,
			Score:           score,
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreEntry sums, per query word, the best-matching weight within each of
// the three field groups (question words, answer words, keywords), then
// applies the density bonus: raw × (0.5 + matched/total). A query word
// counts at most once per field group.
func scoreEntry(entry Entry, queryWords []string) (float64, []string) {
	if len(queryWords) == 0 {
		return 0, nil
	}

	questionWords := Tokenize(entry.Question)
	answerWords := Tokenize(entry.Answer)
	keywords := make([]string, 0, len(entry.Keywords))
	for _, kw := range entry.Keywords {
		if norm := Normalize(kw); norm != "" {
			keywords = append(keywords, norm)
		}
	}

	var raw float64
	var matched []string
	seen := make(map[string]struct{})

	for _, w := range queryWords {
		wordScore := bestMatch(w, questionWords, weightQuestionExact, weightQuestionPartial)
		wordScore += bestMatch(w, answerWords, weightAnswerExact, 0)
		wordScore += bestMatch(w, keywords, weightKeywordExact, weightKeywordPartial)

		if wordScore > 0 {
			raw += wordScore
			if _, dup := seen[w]; !dup {
				seen[w] = struct{}{}
				matched = append(matched, w)
			}
		}
	}

	if raw == 0 {
		return 0, nil
	}

	density := 0.5 + float64(len(seen))/float64(len(queryWords))
	return raw * density, matched
}

// bestMatch returns the highest weight the word earns against the field's
// tokens: exactWeight on equality, partialWeight on a substring match in
// either direction (when partialWeight > 0), otherwise 0.
func bestMatch(word string, tokens []string, exactWeight, partialWeight float64) float64 {
	best := 0.0
	for _, tok := range tokens {
		if tok == word {
			return exactWeight
		}
		if partialWeight > best && (strings.Contains(tok, word) || strings.Contains(word, tok)) {
			best = partialWeight
		}
	}
	return best
}

package keyword

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shoplore/shoplore/internal/models"
	"github.com/shoplore/shoplore/internal/textmatch"
)

// Suggestion represents a spelling suggestion with its score.
type Suggestion struct {
	Term      string  // The suggested term
	Distance  int     // Edit distance from the original term
	Frequency int     // Document frequency (popularity)
	Score     float64 // Combined score for ranking
}

// SpellChecker checks queries against the index term dictionary and produces
// typo corrections with a confidence the ranking engine can discount by.
type SpellChecker struct {
	dictionary  TermDictionary
	maxDistance int
	minFreq     int
	cache       *SuggestionCache

	// Cached terms for faster lookup
	termsCache []string
	termSet    map[string]struct{}
	cacheMu    sync.RWMutex
	cacheValid bool
}

// SpellCheckerOption is a functional option for configuring SpellChecker.
type SpellCheckerOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMinFrequency sets the minimum document frequency for suggestions.
// Terms with lower frequency are ignored (likely rare or noise).
func WithMinFrequency(f int) SpellCheckerOption {
	return func(s *SpellChecker) {
		if f >= 0 {
			s.minFreq = f
		}
	}
}

// WithSuggestionCache sets the cache for per-term suggestions.
func WithSuggestionCache(c *SuggestionCache) SpellCheckerOption {
	return func(s *SpellChecker) {
		s.cache = c
	}
}

// NewSpellChecker creates a SpellChecker with the given dictionary.
func NewSpellChecker(dict TermDictionary, opts ...SpellCheckerOption) *SpellChecker {
	s := &SpellChecker{
		dictionary:  dict,
		maxDistance: 2,
		minFreq:     1,
		termSet:     make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RefreshCache updates the internal term cache from the dictionary.
// Call periodically if the index changes.
func (s *SpellChecker) RefreshCache() error {
	terms, err := s.dictionary.GetAllTerms()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.termsCache = terms
	s.termSet = make(map[string]struct{}, len(terms))
	for _, t := range terms {
		s.termSet[strings.ToLower(t)] = struct{}{}
	}
	s.cacheValid = true

	return nil
}

// Check checks a query for misspelled terms and returns a Correction. A
// correction is always returned; when nothing was corrected, CorrectedQuery
// equals the query and Confidence is 1.
//
// Confidence is the weakest per-term confidence among corrected terms, where
// a term corrected at edit distance d has confidence 1 - d/len(term).
func (s *SpellChecker) Check(query string) (*models.Correction, error) {
	if !s.cacheValid {
		if err := s.RefreshCache(); err != nil {
			return nil, err
		}
	}

	terms := textmatch.Tokenize(query)
	result := &models.Correction{
		OriginalQuery: query,
		Confidence:    1.0,
	}

	correctedTerms := make([]string, 0, len(terms))

	for _, term := range terms {
		s.cacheMu.RLock()
		_, exists := s.termSet[term]
		s.cacheMu.RUnlock()

		if exists {
			correctedTerms = append(correctedTerms, term)
			continue
		}

		best, distance, found := s.bestSuggestion(term)
		if !found {
			correctedTerms = append(correctedTerms, term)
			continue
		}

		correctedTerms = append(correctedTerms, best)
		result.Corrections = append(result.Corrections, models.CorrectionEntry{
			Original:  term,
			Corrected: best,
			Distance:  distance,
		})

		termLen := len([]rune(term))
		if termLen > 0 {
			conf := 1 - float64(distance)/float64(termLen)
			if conf < 0 {
				conf = 0
			}
			if conf < result.Confidence {
				result.Confidence = conf
			}
		}
	}

	result.CorrectedQuery = strings.Join(correctedTerms, " ")
	return result, nil
}

// bestSuggestion returns the top suggestion for a misspelled term, consulting
// the injected cache first.
func (s *SpellChecker) bestSuggestion(term string) (string, int, bool) {
	if s.cache != nil {
		if corrected, ok := s.cache.Get(term); ok {
			if corrected == "" {
				return "", 0, false
			}
			return corrected, textmatch.Levenshtein(term, corrected), true
		}
	}

	suggestions := s.Suggest(term)
	if len(suggestions) == 0 {
		if s.cache != nil {
			// Negative entry: re-scanning the dictionary for a term with no
			// suggestion is the expensive case.
			s.cache.Put(term, "")
		}
		return "", 0, false
	}

	best := suggestions[0]
	if s.cache != nil {
		s.cache.Put(term, best.Term)
	}
	return best.Term, best.Distance, true
}

// Suggest returns spelling suggestions for a single term, best first.
func (s *SpellChecker) Suggest(term string) []Suggestion {
	if !s.cacheValid {
		if err := s.RefreshCache(); err != nil {
			return nil
		}
	}

	termLower := strings.ToLower(term)
	suggestions := make([]Suggestion, 0)

	s.cacheMu.RLock()
	terms := s.termsCache
	s.cacheMu.RUnlock()

	for _, dictTerm := range terms {
		dictTermLower := strings.ToLower(dictTerm)

		if dictTermLower == termLower {
			continue
		}

		// Quick length check before the full distance computation
		lenDiff := len(dictTermLower) - len(termLower)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > s.maxDistance {
			continue
		}

		distance := textmatch.Levenshtein(termLower, dictTermLower)
		if distance > s.maxDistance {
			continue
		}

		freq, err := s.dictionary.GetTermFrequency(dictTerm)
		if err != nil || freq < s.minFreq {
			continue
		}

		// Lower distance is better, higher frequency is better.
		score := (1.0 / float64(distance+1)) * float64(freq)

		suggestions = append(suggestions, Suggestion{
			Term:      dictTerm,
			Distance:  distance,
			Frequency: freq,
			Score:     score,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Term < suggestions[j].Term
	})

	return suggestions
}

// IsMisspelled checks if a term is likely misspelled (not in dictionary).
func (s *SpellChecker) IsMisspelled(term string) bool {
	if !s.cacheValid {
		if err := s.RefreshCache(); err != nil {
			return false
		}
	}

	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	_, exists := s.termSet[strings.ToLower(term)]
	return !exists
}

// SuggestionCache caches per-term best suggestions with a TTL. It is
// constructor-injected rather than a package-level singleton so tests and
// multiple checkers stay isolated.
type SuggestionCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
}

type cacheEntry struct {
	corrected string
	expires   time.Time
}

// NewSuggestionCache creates a cache holding up to maxEntries suggestions for ttl.
func NewSuggestionCache(ttl time.Duration, maxEntries int) *SuggestionCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SuggestionCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
	}
}

// Get returns the cached suggestion for term. The second return is false on
// miss or expiry. An empty suggestion is a cached "no correction found".
func (c *SuggestionCache) Get(term string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[term]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, term)
		return "", false
	}
	return entry.corrected, true
}

// Put stores the suggestion for term. When full, expired entries are dropped
// first; if none are expired an arbitrary entry is evicted.
func (c *SuggestionCache) Put(term, corrected string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		for k := range c.entries {
			if len(c.entries) < c.maxEntries {
				break
			}
			delete(c.entries, k)
		}
	}

	c.entries[term] = cacheEntry{
		corrected: corrected,
		expires:   time.Now().Add(c.ttl),
	}
}

// Len returns the number of cached entries.
func (c *SuggestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

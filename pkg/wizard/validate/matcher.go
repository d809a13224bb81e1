package validate

import (
	"log"
	"strings"

	"argovers-soil-be/pkg/embedding"
)

// Similarity scores produced by the fuzzy fallback
const (
	scoreExact     = 1.0
	scoreSubstring = 0.85
	overlapWeight  = 0.7
)

// DefaultSimilarityThreshold is the acceptance floor for canonical matches.
// Deliberately permissive: a false negative blocks the farmer's progress,
// which hurts more than an occasional loose match. Revisit with field data.
const DefaultSimilarityThreshold = 0.40

// Matcher scores free text against canonical-label synonym lists. When an
// embedding provider is configured it uses cosine similarity; otherwise it
// falls back to exact/substring/character-overlap matching.
type Matcher struct {
	embedder  embedding.Provider
	threshold float64
	logger    *log.Logger
}

// NewMatcher creates a matcher. embedder may be nil, in which case only the
// fuzzy fallback runs.
func NewMatcher(embedder embedding.Provider, threshold float64, logger *log.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the acceptance floor in use.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Similarity scores two texts in [0,1].
func (m *Matcher) Similarity(text1, text2 string) float64 {
	if m.embedder == nil {
		return fuzzyMatch(text1, text2)
	}

	emb1, err := m.embedder.Generate(text1, "similarity")
	if err != nil {
		m.logger.Printf("[WARN] embedding failed, using fuzzy match: %v", err)
		return fuzzyMatch(text1, text2)
	}
	emb2, err := m.embedder.Generate(text2, "similarity")
	if err != nil {
		m.logger.Printf("[WARN] embedding failed, using fuzzy match: %v", err)
		return fuzzyMatch(text1, text2)
	}

	return embedding.Cosine(emb1.Embedding.Values, emb2.Embedding.Values)
}

// MatchCanonical returns the best-scoring canonical label for userText, with
// the score. A result below the acceptance threshold still comes back so
// callers can log near misses; Accepts reports whether it clears the floor.
func (m *Matcher) MatchCanonical(userText string, labels map[string][]string) (string, float64) {
	userText = strings.ToLower(strings.TrimSpace(userText))

	bestLabel := ""
	bestScore := 0.0

	for canonical, synonyms := range labels {
		for _, synonym := range synonyms {
			score := m.Similarity(userText, synonym)
			if score > bestScore {
				bestScore = score
				bestLabel = canonical
			}
		}
	}

	return bestLabel, bestScore
}

// Accepts reports whether a match score clears the acceptance threshold.
func (m *Matcher) Accepts(score float64) bool {
	return score >= m.threshold
}

// fuzzyMatch is the string-only similarity fallback: exact, substring, then
// character-overlap ratio.
func fuzzyMatch(text1, text2 string) float64 {
	text1 = strings.ToLower(strings.TrimSpace(text1))
	text2 = strings.ToLower(strings.TrimSpace(text2))

	if text1 == text2 {
		return scoreExact
	}

	if strings.Contains(text2, text1) || strings.Contains(text1, text2) {
		return scoreSubstring
	}

	set1 := runeSet(text1)
	set2 := runeSet(text2)
	common := 0
	for r := range set1 {
		if set2[r] {
			common++
		}
	}
	if common == 0 {
		return 0.0
	}
	larger := len(set1)
	if len(set2) > larger {
		larger = len(set2)
	}
	return float64(common) / float64(larger) * overlapWeight
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

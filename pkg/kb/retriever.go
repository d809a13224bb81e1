package kb

import (
	"sort"
	"strings"

	"argovers-soil-be/pkg/wizard"
)

// Scoring weights for keyword retrieval. Retrieval is deterministic on
// purpose: the same query against the same corpus always yields the same
// chunks, which keeps the audit trail reproducible.
const (
	scoreParameterMatch = 10.0
	scoreQueryWord      = 2.0
	scoreHowToSection   = 5.0
	scoreLanguageMatch  = 3.0

	minChunkLength = 20
)

// parameterKeywords maps each step to the words that identify its chunks.
var parameterKeywords = map[wizard.Parameter][]string{
	wizard.ParamColor:          {"color", "रंग", "colour"},
	wizard.ParamMoisture:       {"moisture", "नमी", "wet", "dry", "गीली", "सूखी"},
	wizard.ParamSmell:          {"smell", "गंध", "odor", "scent"},
	wizard.ParamPH:             {"ph", "acid", "alkaline", "अम्ल", "क्षार"},
	wizard.ParamSoilType:       {"soil type", "मिट्टी", "clay", "sandy", "loamy", "चिकनी", "रेतीली"},
	wizard.ParamEarthworms:     {"earthworm", "केंचुए", "worm"},
	wizard.ParamLocation:       {"location", "स्थान", "place"},
	wizard.ParamFertilizerUsed: {"fertilizer", "खाद", "manure"},
}

// Retriever scores corpus chunks against a query by keyword overlap.
type Retriever struct {
	corpus *Corpus
}

func NewRetriever(corpus *Corpus) *Retriever {
	return &Retriever{corpus: corpus}
}

// IsReady reports whether the underlying corpus has content.
func (r *Retriever) IsReady() bool {
	return r.corpus.IsReady()
}

type scoredChunk struct {
	score    float64
	text     string
	language string
}

// Retrieve returns up to k chunk texts ranked by relevance to the query and
// parameter. Same-language chunks are preferred; other languages backfill
// when there are not enough.
func (r *Retriever) Retrieve(query string, param wizard.Parameter, language string, k int) []string {
	if !r.corpus.IsReady() || k <= 0 {
		return nil
	}

	queryWords := strings.Fields(strings.ToLower(query))
	keywords := parameterKeywords[param]
	if len(keywords) == 0 {
		keywords = []string{string(param)}
	}

	var scored []scoredChunk
	for _, chunk := range r.corpus.chunks {
		if len(chunk.Text) < minChunkLength {
			continue
		}
		if score := scoreChunk(chunk, queryWords, keywords, language); score > 0 {
			scored = append(scored, scoredChunk{score: score, text: chunk.Text, language: chunk.Language})
		}
	}

	// Stable sort keeps corpus order for ties, so results are deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	var sameLang, otherLang []string
	for _, sc := range scored {
		if sc.language == language {
			sameLang = append(sameLang, sc.text)
		} else {
			otherLang = append(otherLang, sc.text)
		}
	}

	result := sameLang
	if len(result) > k {
		result = result[:k]
	}
	if len(result) < k {
		need := k - len(result)
		if need > len(otherLang) {
			need = len(otherLang)
		}
		result = append(result, otherLang[:need]...)
	}
	return result
}

func scoreChunk(chunk Chunk, queryWords, keywords []string, language string) float64 {
	textLower := strings.ToLower(chunk.Text)

	// Structured output that leaked into the corpus is never useful guidance.
	if strings.HasPrefix(strings.TrimSpace(chunk.Text), "{") || strings.Contains(chunk.Text, "```json") {
		return 0
	}

	score := 0.0

	head := textLower
	if len(head) > 200 {
		head = head[:200]
	}
	chunkParam := strings.ToLower(chunk.Parameter)
	for _, kw := range keywords {
		if strings.Contains(chunkParam, kw) || strings.Contains(head, kw) {
			score += scoreParameterMatch
			break
		}
	}

	for _, word := range queryWords {
		if len(word) > 3 && strings.Contains(textLower, word) {
			score += scoreQueryWord
		}
	}

	if chunk.SectionType == "how_to_test" || strings.Contains(chunk.Text, "कैसे जांचें") || strings.Contains(textLower, "how to") {
		score += scoreHowToSection
	}

	if chunk.Language == language {
		score += scoreLanguageMatch
	}

	return score
}

package extract

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"argovers-soil-be/pkg/llm"
	"argovers-soil-be/pkg/store"
	"argovers-soil-be/pkg/wizard"
	"argovers-soil-be/pkg/wizard/validate"
)

// Extraction confidences by match quality against the expected value list.
const (
	confExactMatch     = 0.95
	confSubstringMatch = 0.85
)

var punctuationPattern = regexp.MustCompile(`["'\.,!?]`)

// Extractor asks the model to pull a single canonical value out of a
// free-form utterance. The model is forced into a one-word reply with
// HELP and NONE sentinels, so parsing stays trivial and auditable.
type Extractor struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewExtractor(llmProvider llm.Provider, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Extract returns (value, confidence). An empty value with confidence 0
// means the model declined (HELP or NONE) or the call failed; callers fall
// back to the deterministic validator.
func (e *Extractor) Extract(ctx context.Context, userText string, param wizard.Parameter, language string) (string, float64) {
	if e.llmProvider == nil {
		return "", 0
	}

	expected := validate.ExpectedValues(param)
	if len(expected) == 0 {
		return "", 0
	}

	prompt := buildExtractionPrompt(userText, param, expected, language)

	response, err := e.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(10),
	)
	if err != nil {
		e.logger.Printf("[ERROR] answer extraction failed for %s: %v", param, err)
		return "", 0
	}

	return parseResponse(response, expected)
}

func parseResponse(response string, expected []string) (string, float64) {
	cleaned := strings.ToLower(strings.TrimSpace(response))
	cleaned = punctuationPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "help" || cleaned == "none" {
		return "", 0
	}

	for _, value := range expected {
		if cleaned == strings.ToLower(value) {
			return value, confExactMatch
		}
	}

	for _, value := range expected {
		lower := strings.ToLower(value)
		if strings.Contains(cleaned, lower) || strings.Contains(lower, cleaned) {
			return value, confSubstringMatch
		}
	}

	return "", 0
}

func buildExtractionPrompt(userText string, param wizard.Parameter, expected []string, language string) string {
	values := strings.Join(expected, ", ")

	if language == store.LanguageHindi {
		return fmt.Sprintf(`किसान का संदेश: "%s"
प्रश्न का विषय: मिट्टी का %s

संभावित मान: %s

किसान के संदेश से सही मान निकालो।
- अगर संदेश में कोई मान्य उत्तर है, तो ऊपर की सूची से केवल वही एक शब्द लिखो।
- अगर किसान मदद मांग रहा है, तो "HELP" लिखो।
- अगर कोई मान्य उत्तर नहीं है, तो "NONE" लिखो।

केवल एक शब्द में जवाब दो:`, userText, param, values)
	}

	return fmt.Sprintf(`User message: "%s"
Question topic: soil %s

Possible values: %s

Extract the correct value from the user's message.
- If the message contains a valid answer, reply with EXACTLY ONE value from the list above.
- If the user is asking for help, reply "HELP".
- If no valid answer is present, reply "NONE".

Reply with ONLY ONE WORD:`, userText, param, values)
}

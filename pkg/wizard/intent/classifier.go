package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"argovers-soil-be/pkg/llm"
	"argovers-soil-be/pkg/store"
	"argovers-soil-be/pkg/wizard"
)

// Intent labels
const (
	IntentAnswer      = "answer"
	IntentHelpRequest = "help_request"
)

// Confidence levels emitted by the cascade. Each stage short-circuits, so a
// result's confidence also identifies which stage produced it.
const (
	confNameShortcut     = 0.99 // name is near-always an answer
	confLocationSentence = 0.99 // multi-word location text
	confLocationKeyword  = 0.98 // contains a location indicator word
	confLocationProper   = 0.97 // capitalized proper noun
	confLocationLength   = 0.95 // short but plausible place name
	confVocabularyHit    = 0.95 // text contains a known valid value
	confExplicitHelp     = 0.95 // standalone help phrase
	confModelVerdict     = 0.90 // LLM one-word classification
	confShortUtterance   = 0.85 // <=2 tokens, no help indicator
	confFollowUp         = 0.75 // help follow-up: keep helping, don't restart
	confFallbackHelp     = 0.70 // keyword fallback after model failure
	confFallbackAnswer   = 0.60 // keyword fallback default
)

// FollowUpConfidence is the marker confidence for follow-up help requests.
// Callers use it to avoid restarting guidance from step one.
const FollowUpConfidence = confFollowUp

var explicitHelpPhrases = []string{"help", "मदद", "don't know", "नहीं पता", "how", "कैसे"}

var standaloneHelpPhrases = []string{"don't know", "dont know", "not sure", "नहीं पता"}

var followUpPhrases = []string{
	"problem", "issue", "after step", "step", "what next", "then what",
	"समस्या", "कदम के बाद", "फिर क्या",
}

var locationIndicators = []string{
	"में", "है", "से", "का", "की", "गाँव", "गाउं", "जिला",
	"in", "at", "from", "village", "district",
}

// validAnswerVocabulary duplicates the validator synonym surface for the
// fast path: a vocabulary hit means "answer" without a model call.
var validAnswerVocabulary = map[wizard.Parameter][]string{
	wizard.ParamColor: {
		"black", "red", "brown", "yellow", "grey", "gray", "dark", "light", "white",
		"काली", "काला", "लाल", "भूरी", "भूरा", "पीली", "पीला", "स्लेटी", "सफेद",
		"kali", "lal", "bhura", "peela", "surahi",
	},
	wizard.ParamMoisture: {
		"dry", "wet", "moist", "damp", "very dry", "very wet", "slightly moist",
		"सूखी", "सूखा", "गीली", "गीला", "नम", "थोड़ी नम", "बहुत सूखी", "बहुत गीली",
		"sukhi", "geeli", "nam",
	},
	wizard.ParamSmell: {
		"sweet", "earthy", "sour", "rotten", "no smell", "none", "good", "bad", "fresh",
		"मीठी", "मीठा", "मिट्टी", "मिट्टी जैसी", "खट्टी", "खट्टा", "सड़ी", "सड़ा", "कोई गंध नहीं",
		"meethi", "mitti", "khatti", "sadhi",
	},
	wizard.ParamPH: {
		"acidic", "neutral", "alkaline", "basic", "sour", "bitter", "balanced",
		"अम्लीय", "तटस्थ", "क्षारीय", "खट्टा", "संतुलित",
		"amliya", "tatasth", "kshariya",
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14",
		"6.5", "7.0", "7.5", "ph",
	},
	wizard.ParamSoilType: {
		"clay", "sandy", "loamy", "silt", "silty", "loam", "sand",
		"चिकनी", "रेतिली", "दोमट", "गादयुक्त", "मिट्टी",
		"chikni", "retili", "domat",
	},
	wizard.ParamEarthworms: {
		"yes", "no", "many", "few", "none", "some", "lots", "present", "absent",
		"हाँ", "नहीं", "बहुत", "थोड़े", "कम", "हैं", "नहीं हैं",
		"haan", "nahi", "bahut", "kam", "thode",
	},
	wizard.ParamFertilizerUsed: {
		"urea", "dap", "npk", "organic", "compost", "manure", "none", "no", "yes",
		"यूरिया", "डीएपी", "एनपीके", "जैविक", "खाद", "कुछ नहीं", "नहीं", "हाँ",
		"vermicompost", "cow dung", "gobar",
	},
}

var helpKeywordsEN = []string{"don't know", "help", "how", "explain", "guide", "steps", "not sure"}
var helpKeywordsHI = []string{"नहीं पता", "मदद", "कैसे", "समझाओ", "बताओ"}

// Classifier decides whether an utterance is providing an answer or asking
// for help. Deterministic heuristics absorb the common cases; the model is
// only consulted for genuinely ambiguous longer utterances.
type Classifier struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.Provider, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify runs the decision cascade and returns (intent, confidence).
func (c *Classifier) Classify(ctx context.Context, userText string, param wizard.Parameter, language string) (string, float64) {
	userLower := strings.ToLower(strings.TrimSpace(userText))

	// Stage 1a: name is an answer unless explicitly asking for help.
	// A false "help" trigger on a free-text field costs the farmer a turn.
	if param == wizard.ParamName {
		if !containsAny(userLower, explicitHelpPhrases) {
			return IntentAnswer, confNameShortcut
		}
	}

	// Stage 1b: location gets its own very permissive probes
	if param == wizard.ParamLocation {
		if intent, conf, ok := c.classifyLocation(userText, userLower); ok {
			return intent, conf
		}
	}

	// Stage 2: known-valid-value vocabulary hit
	for _, valid := range validAnswerVocabulary[param] {
		if strings.Contains(userLower, valid) {
			return IntentAnswer, confVocabularyHit
		}
	}

	// Stage 3: standalone help phrases
	if containsAny(userLower, standaloneHelpPhrases) {
		return IntentHelpRequest, confExplicitHelp
	}

	// Stage 4: follow-up questions stay in help mode but are answered
	// specifically, not restarted from step one
	if containsAny(userLower, followUpPhrases) {
		return IntentHelpRequest, confFollowUp
	}

	// Stage 5: short utterances are rarely help requests
	if len(strings.Fields(userText)) <= 2 {
		return IntentAnswer, confShortUtterance
	}

	// Stage 6: model classification, keyword fallback on any failure
	return c.classifyWithModel(ctx, userText, param, language)
}

func (c *Classifier) classifyLocation(userText, userLower string) (string, float64, bool) {
	explicitHelp := []string{"don't know", "dont know", "नहीं पता", "मदद", "help", "कैसे बताऊं"}
	if containsAny(userLower, explicitHelp) {
		return "", 0, false
	}

	if len(strings.Fields(userText)) > 2 {
		return IntentAnswer, confLocationSentence, true
	}

	for _, indicator := range locationIndicators {
		if strings.Contains(userLower, indicator) {
			return IntentAnswer, confLocationKeyword, true
		}
	}

	for _, word := range strings.Fields(userText) {
		first := []rune(word)[0]
		if first >= 'A' && first <= 'Z' {
			return IntentAnswer, confLocationProper, true
		}
	}

	if len(strings.TrimSpace(userText)) > 3 {
		return IntentAnswer, confLocationLength, true
	}

	return "", 0, false
}

func (c *Classifier) classifyWithModel(ctx context.Context, userText string, param wizard.Parameter, language string) (string, float64) {
	if c.llmProvider == nil {
		return c.fallbackClassification(userText, language)
	}

	prompt := buildClassificationPrompt(userText, param, language)

	response, err := c.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(5),
	)
	if err != nil {
		c.logger.Printf("[ERROR] intent classification failed: %v", err)
		return c.fallbackClassification(userText, language)
	}

	verdict := strings.ToUpper(strings.TrimSpace(response))
	switch {
	case strings.Contains(verdict, "HELP"):
		return IntentHelpRequest, confModelVerdict
	case strings.Contains(verdict, "ANSWER"):
		return IntentAnswer, confModelVerdict
	default:
		c.logger.Printf("[WARN] unparseable intent verdict %q, using keyword fallback", response)
		return c.fallbackClassification(userText, language)
	}
}

func (c *Classifier) fallbackClassification(userText, language string) (string, float64) {
	userLower := strings.ToLower(userText)

	keywords := helpKeywordsEN
	if language == store.LanguageHindi {
		keywords = helpKeywordsHI
	}
	if containsAny(userLower, keywords) {
		return IntentHelpRequest, confFallbackHelp
	}

	return IntentAnswer, confFallbackAnswer
}

func buildClassificationPrompt(userText string, param wizard.Parameter, language string) string {
	if language == store.LanguageHindi {
		if param == wizard.ParamLocation {
			return fmt.Sprintf(`किसान का संदेश: "%s"
प्रश्न: आपका खेत कहाँ है? (गाँव, जिला, राज्य)

क्या किसान:
A) स्थान बता रहा है (जैसे "सोनीपत में", "दिल्ली", "मेरा गाँव बालगड़ है")
B) मदद मांग रहा है (जैसे "नहीं पता", "कैसे बताऊं")

महत्वपूर्ण: अगर संदेश में कोई भी स्थान का नाम है, तो "ANSWER" चुनें।

केवल एक शब्द में जवाब दो: "ANSWER" या "HELP"

जवाब:`, userText)
		}
		return fmt.Sprintf(`किसान का संदेश: "%s"
प्रश्न: मिट्टी का %s क्या है?

क्या किसान:
A) उत्तर दे रहा है (जैसे "काली", "लाल", "नम", "अम्लीय")
B) मदद मांग रहा है (जैसे "नहीं पता", "कैसे जांचें", "समझाओ")

महत्वपूर्ण: अगर संदेश में कोई भी मान्य उत्तर है (रंग, नमी, गंध, pH), तो "ANSWER" चुनें।

केवल एक शब्द में जवाब दो: "ANSWER" या "HELP"

जवाब:`, userText, param)
	}

	if param == wizard.ParamLocation {
		return fmt.Sprintf(`User message: "%s"
Question: Where is your farm located? (village, district, state)

Is the user:
A) Providing a location (like "Sonipat", "Delhi", "My village is Balgad")
B) Asking for help (like "don't know", "how to tell")

IMPORTANT: If the message contains ANY place name or location, choose "ANSWER".

Reply with ONLY ONE WORD: "ANSWER" or "HELP"

Reply:`, userText)
	}
	return fmt.Sprintf(`User message: "%s"
Question: What is the soil %s?

Is the user:
A) Providing an answer (like "black", "red", "moist", "acidic")
B) Asking for help (like "don't know", "how to check", "explain")

IMPORTANT: If the message contains ANY valid answer value (color, moisture, smell, pH), choose "ANSWER".

Reply with ONLY ONE WORD: "ANSWER" or "HELP"

Reply:`, userText, param)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

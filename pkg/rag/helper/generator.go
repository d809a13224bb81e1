package helper

import (
	"context"
	"fmt"
	"log"
	"strings"

	"argovers-soil-be/pkg/llm"
	"argovers-soil-be/pkg/store"
	"argovers-soil-be/pkg/wizard"
)

// Generation settings. Guidance must finish all steps in one reply, so the
// stop sequences cut the model off the moment it starts inviting follow-ups.
const (
	helperTemperature = 0.4
	helperMaxTokens   = 400
	maxContextChunks  = 3
)

var stopSequences = []string{"Let me know", "let me know", "मुझे बताएं", "अगर आप", "if you'd like"}

var followUpMarkersEN = []string{"step", "problem", "after"}
var followUpMarkersHI = []string{"step", "कदम", "problem"}

// queryTemplates are the retrieval queries per parameter. The user message
// is appended so their specific wording can pull in extra chunks.
var queryTemplates = map[wizard.Parameter]map[string]string{
	wizard.ParamColor: {
		store.LanguageEnglish: "How to identify soil color at home step by step",
		store.LanguageHindi:   "घर पर मिट्टी का रंग कैसे पहचानें चरणबद्ध तरीके से",
	},
	wizard.ParamMoisture: {
		store.LanguageEnglish: "How to test soil moisture level at home step by step",
		store.LanguageHindi:   "घर पर मिट्टी की नमी का स्तर कैसे जांचें चरणबद्ध तरीके से",
	},
	wizard.ParamSmell: {
		store.LanguageEnglish: "How to test soil smell at home step by step",
		store.LanguageHindi:   "घर पर मिट्टी की गंध कैसे जांचें चरणबद्ध तरीके से",
	},
	wizard.ParamPH: {
		store.LanguageEnglish: "How to test soil pH at home step by step",
		store.LanguageHindi:   "घर पर मिट्टी का pH कैसे जांचें चरणबद्ध तरीके से",
	},
	wizard.ParamSoilType: {
		store.LanguageEnglish: "How to identify soil type at home step by step",
		store.LanguageHindi:   "घर पर मिट्टी का प्रकार कैसे पहचानें चरणबद्ध तरीके से",
	},
	wizard.ParamEarthworms: {
		store.LanguageEnglish: "How to check for earthworms in soil",
		store.LanguageHindi:   "मिट्टी में केंचुए कैसे जांचें",
	},
	wizard.ParamLocation: {
		store.LanguageEnglish: "soil location and geography",
		store.LanguageHindi:   "मिट्टी का स्थान और भूगोल",
	},
	wizard.ParamFertilizerUsed: {
		store.LanguageEnglish: "fertilizer types and usage",
		store.LanguageHindi:   "खाद के प्रकार और उपयोग",
	},
}

var parameterDisplayNames = map[wizard.Parameter]map[string]string{
	wizard.ParamColor:          {store.LanguageHindi: "रंग", store.LanguageEnglish: "color"},
	wizard.ParamMoisture:       {store.LanguageHindi: "नमी", store.LanguageEnglish: "moisture"},
	wizard.ParamSmell:          {store.LanguageHindi: "गंध", store.LanguageEnglish: "smell"},
	wizard.ParamPH:             {store.LanguageHindi: "pH", store.LanguageEnglish: "pH"},
	wizard.ParamSoilType:       {store.LanguageHindi: "मिट्टी का प्रकार", store.LanguageEnglish: "soil type"},
	wizard.ParamEarthworms:     {store.LanguageHindi: "केंचुए", store.LanguageEnglish: "earthworms"},
	wizard.ParamLocation:       {store.LanguageHindi: "स्थान", store.LanguageEnglish: "location"},
	wizard.ParamFertilizerUsed: {store.LanguageHindi: "खाद", store.LanguageEnglish: "fertilizer"},
}

// BuildQuery composes the retrieval query for a parameter and utterance.
func BuildQuery(param wizard.Parameter, userMessage, language string) string {
	base := string(param)
	if byLang, ok := queryTemplates[param]; ok {
		if tmpl, ok := byLang[language]; ok {
			base = tmpl
		}
	}
	return base + " " + userMessage
}

// DisplayName returns the farmer-facing name of a parameter.
func DisplayName(param wizard.Parameter, language string) string {
	if byLang, ok := parameterDisplayNames[param]; ok {
		if name, ok := byLang[language]; ok {
			return name
		}
	}
	return string(param)
}

// Generator produces step-by-step testing guidance grounded in retrieved
// knowledge base chunks.
type Generator struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.Provider, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate builds guidance for the current parameter. The model never sees
// more than maxContextChunks of context. On any model failure the farmer
// still gets a usable fallback line in their language.
func (g *Generator) Generate(ctx context.Context, param wizard.Parameter, userMessage, language string, chunks []string) string {
	if g.llmProvider == nil {
		return g.fallback(param, language)
	}

	if len(chunks) > maxContextChunks {
		chunks = chunks[:maxContextChunks]
	}
	contextBlock := strings.Join(chunks, "\n\n")

	prompt := buildHelperPrompt(param, userMessage, language, contextBlock)

	response, err := g.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(helperTemperature),
		llm.WithMaxTokens(helperMaxTokens),
		llm.WithStop(stopSequences...),
	)
	if err != nil {
		g.logger.Printf("[ERROR] helper generation failed for %s: %v", param, err)
		return g.fallback(param, language)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return g.fallback(param, language)
	}
	return response
}

func (g *Generator) fallback(param wizard.Parameter, language string) string {
	if language == store.LanguageHindi {
		return fmt.Sprintf("किसान भाई, %s की जांच के लिए कृपया विकल्पों में से चुनें या फिर से प्रयास करें।", param)
	}
	return fmt.Sprintf("Please select from the options or try again to test %s.", param)
}

// IsFollowUp reports whether the utterance refers back to earlier guidance
// rather than asking for it fresh.
func IsFollowUp(userMessage, language string) bool {
	lower := strings.ToLower(userMessage)
	markers := followUpMarkersEN
	if language == store.LanguageHindi {
		markers = followUpMarkersHI
	}
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func buildHelperPrompt(param wizard.Parameter, userMessage, language, contextBlock string) string {
	display := DisplayName(param, language)

	if language == store.LanguageHindi {
		if IsFollowUp(userMessage, language) {
			return fmt.Sprintf(`किसान का सवाल: "%s"

संदर्भ:
%s

किसान को %s के बारे में उनके सवाल का जवाब दो। अगर वे किसी खास कदम के बारे में पूछ रहे हैं, तो उस कदम को विस्तार से समझाओ।

जवाब:`, userMessage, contextBlock, display)
		}
		return fmt.Sprintf(`नीचे दिए गए संदर्भ का उपयोग करके किसान भाई को %s जांचने में मदद करो।

संदर्भ:
%s

ऊपर दी गई जानकारी से किसान को %s जांचने के लिए सभी कदम एक साथ बताओ। सभी कदमों को पूरा करो, बीच में मत रुको।

किसान भाई, %s जांचने के लिए ये सभी कदम अपनाएं:

कदम 1:`, display, contextBlock, display, display)
	}

	if IsFollowUp(userMessage, language) {
		return fmt.Sprintf(`Farmer's question: "%s"

Context:
%s

Answer the farmer's specific question about %s. If they're asking about a specific step, explain that step in more detail.

Answer:`, userMessage, contextBlock, display)
	}
	return fmt.Sprintf(`Help the farmer test %s using the context below.

Context:
%s

Based on the information above, provide ALL steps together to test %s. Complete all steps, don't stop in the middle.

To test %s, follow ALL these steps:

Step 1:`, display, contextBlock, display, display)
}

package wizard

import "argovers-soil-be/pkg/store"

// Parameter identifies one soil-attribute question in the wizard flow.
type Parameter string

const (
	ParamName           Parameter = "name"
	ParamColor          Parameter = "color"
	ParamMoisture       Parameter = "moisture"
	ParamSmell          Parameter = "smell"
	ParamPH             Parameter = "ph"
	ParamSoilType       Parameter = "soil_type"
	ParamEarthworms     Parameter = "earthworms"
	ParamLocation       Parameter = "location"
	ParamFertilizerUsed Parameter = "fertilizer_used"
)

// ParameterOrder defines the wizard flow. The order is fixed; sessions walk
// it front to back and never revisit a step.
var ParameterOrder = []Parameter{
	ParamName,
	ParamColor,
	ParamMoisture,
	ParamSmell,
	ParamPH,
	ParamSoilType,
	ParamEarthworms,
	ParamLocation,
	ParamFertilizerUsed,
}

// parameterQuestions maps each parameter to its per-language prompt text.
var parameterQuestions = map[Parameter]map[string]string{
	ParamName: {
		store.LanguageEnglish: "Welcome! What is your name?",
		store.LanguageHindi:   "स्वागत है! आपका नाम क्या है?",
	},
	ParamColor: {
		store.LanguageEnglish: "What is the color of your soil?",
		store.LanguageHindi:   "आपकी मिट्टी का रंग क्या है?",
	},
	ParamMoisture: {
		store.LanguageEnglish: "What is the moisture level of your soil?",
		store.LanguageHindi:   "आपकी मिट्टी में नमी का स्तर क्या है?",
	},
	ParamSmell: {
		store.LanguageEnglish: "What does your soil smell like?",
		store.LanguageHindi:   "आपकी मिट्टी से कैसी गंध आती है?",
	},
	ParamPH: {
		store.LanguageEnglish: "What is the pH level of your soil?",
		store.LanguageHindi:   "आपकी मिट्टी का pH स्तर क्या है?",
	},
	ParamSoilType: {
		store.LanguageEnglish: "What type of soil do you have?",
		store.LanguageHindi:   "आपकी मिट्टी किस प्रकार की है?",
	},
	ParamEarthworms: {
		store.LanguageEnglish: "Are there earthworms in your soil?",
		store.LanguageHindi:   "क्या आपकी मिट्टी में केंचुए हैं?",
	},
	ParamLocation: {
		store.LanguageEnglish: "Where is your farm located? (village, district, state)",
		store.LanguageHindi:   "आपका खेत कहाँ स्थित है? (गाँव, जिला, राज्य)",
	},
	ParamFertilizerUsed: {
		store.LanguageEnglish: "What fertilizers have you used recently?",
		store.LanguageHindi:   "आपने हाल ही में कौन सी खाद का उपयोग किया है?",
	},
}

// First returns the opening parameter of the schedule.
func First() Parameter {
	return ParameterOrder[0]
}

// Next returns the parameter that follows p, or "" when p is the last step
// or is not part of the schedule.
func Next(p Parameter) Parameter {
	for i, candidate := range ParameterOrder {
		if candidate == p && i < len(ParameterOrder)-1 {
			return ParameterOrder[i+1]
		}
	}
	return ""
}

// Index returns the 1-based step number for p, or 0 when p is unknown.
// Callers treat 0 as a recoverable skip-forward case, not an error.
func Index(p Parameter) int {
	for i, candidate := range ParameterOrder {
		if candidate == p {
			return i + 1
		}
	}
	return 0
}

// Known reports whether p is part of the schedule.
func Known(p Parameter) bool {
	return Index(p) != 0
}

// TotalSteps returns the schedule length.
func TotalSteps() int {
	return len(ParameterOrder)
}

// Question returns the prompt text for p in the requested language.
func Question(p Parameter, language string) string {
	if q, ok := parameterQuestions[p][language]; ok {
		return q
	}
	return "Please provide information."
}

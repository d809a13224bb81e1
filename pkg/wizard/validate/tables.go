package validate

import (
	"argovers-soil-be/pkg/store"
	"argovers-soil-be/pkg/wizard"
)

// Canonical label tables. Each canonical value maps to its synonyms across
// English, Hindi and transliterated variants. Adding a synonym needs no code
// change anywhere else.

var colorLabels = map[string][]string{
	"black":  {"black", "kali", "काली", "काला", "dark", "गहरा", "kala"},
	"red":    {"red", "lal", "लाल", "reddish", "laal"},
	"brown":  {"brown", "bhura", "भूरा", "भूरी", "bhoora"},
	"yellow": {"yellow", "peela", "पीला", "पीली", "peeli"},
	"grey":   {"grey", "gray", "surahi", "सुराही", "ग्रे"},
}

var moistureLabels = map[string][]string{
	"dry":      {"dry", "sukhi", "सूखी", "सूखा", "arid"},
	"wet":      {"wet", "geeli", "गीली", "गीला", "damp"},
	"moist":    {"moist", "nam", "नम", "humid"},
	"very_dry": {"very dry", "bahut sukhi", "बहुत सूखी"},
}

var smellLabels = map[string][]string{
	"sweet":    {"sweet", "meethi", "मीठी", "मीठा", "good"},
	"earthy":   {"earthy", "mitti", "मिट्टी", "soil-like"},
	"sour":     {"sour", "khatti", "खट्टी", "खट्टा"},
	"rotten":   {"rotten", "sadhi", "सड़ी", "bad", "foul"},
	"no_smell": {"no smell", "koi gandh nahi", "कोई गंध नहीं", "odorless"},
}

var phLabels = map[string][]string{
	"acidic":   {"acidic", "acid", "अम्लीय", "khatta"},
	"neutral":  {"neutral", "तटस्थ", "balanced"},
	"alkaline": {"alkaline", "basic", "क्षारीय"},
}

var soilTypeLabels = map[string][]string{
	"clay":  {"clay", "chikni", "चिकनी", "sticky"},
	"sandy": {"sandy", "retili", "रेतिली", "sand"},
	"loamy": {"loamy", "dumat", "दोमट", "मिट्टी"},
	"silt":  {"silt", "silty"},
}

var earthwormsLabels = map[string][]string{
	"yes":  {"yes", "haan", "हाँ", "हैं", "present"},
	"no":   {"no", "nahi", "नहीं", "absent"},
	"many": {"many", "bahut", "बहुत", "lots"},
	"few":  {"few", "kam", "कम", "some"},
}

var yesNoLabels = map[string][]string{
	"yes": {"yes", "haan", "हाँ", "used"},
	"no":  {"no", "nahi", "नहीं", "none"},
}

// helpIndicators list the language-specific phrases that always mean the
// farmer wants guidance rather than giving an answer. Checked before any
// matching, independent of the intent classifier.
var helpIndicators = map[string][]string{
	store.LanguageEnglish: {
		"help", "don't know", "dont know", "dunno", "unsure", "not sure",
		"?", "idk", "i don't know", "i dont know", "no idea", "need help",
	},
	store.LanguageHindi: {
		"मदद", "पता नहीं", "समझ नहीं आया", "?", "नहीं पता",
		"मुझे नहीं पता", "मुझे पता नहीं", "मालूम नहीं", "मदद चाहिए",
	},
}

// expectedValues lists the closed value set offered to the answer extractor.
// Open-vocabulary parameters have no closed set.
var expectedValues = map[wizard.Parameter][]string{
	wizard.ParamColor:          {"black", "red", "brown", "yellow", "grey"},
	wizard.ParamMoisture:       {"dry", "wet", "moist", "very_dry"},
	wizard.ParamSmell:          {"sweet", "earthy", "sour", "rotten", "no_smell"},
	wizard.ParamPH:             {"acidic", "neutral", "alkaline", "very_acidic", "very_alkaline"},
	wizard.ParamSoilType:       {"clay", "sandy", "loamy", "silt"},
	wizard.ParamEarthworms:     {"yes", "no", "many", "few"},
	wizard.ParamLocation:       {},
	wizard.ParamFertilizerUsed: {},
}

// ExpectedValues returns the closed value set for a parameter, empty for
// free-text parameters.
func ExpectedValues(param wizard.Parameter) []string {
	return expectedValues[param]
}

// labelTable returns the canonical label table for a parameter, nil for
// free-text parameters.
func labelTable(param wizard.Parameter) map[string][]string {
	switch param {
	case wizard.ParamColor:
		return colorLabels
	case wizard.ParamMoisture:
		return moistureLabels
	case wizard.ParamSmell:
		return smellLabels
	case wizard.ParamPH:
		return phLabels
	case wizard.ParamSoilType:
		return soilTypeLabels
	case wizard.ParamEarthworms:
		return earthwormsLabels
	default:
		return nil
	}
}

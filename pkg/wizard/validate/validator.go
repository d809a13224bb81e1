package validate

import (
	"regexp"
	"strconv"
	"strings"

	"argovers-soil-be/pkg/wizard"
)

// Outcome is the result of validating one answer. Confident is only ever
// true alongside a non-empty Value. Absence of a parse is a normal outcome
// (escalation follows), never an error.
type Outcome struct {
	Value     string
	PHValue   *float64
	Confident bool
}

var notConfident = Outcome{}

// pH category boundaries
const (
	phVeryAcidicBelow = 5.5
	phAcidicBelow     = 6.5
	phNeutralUpTo     = 7.5
	phAlkalineBelow   = 8.5
)

var numberPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// Validator maps raw answer text onto canonical values, one pure function
// per parameter behind a single dispatch entry point.
type Validator struct {
	matcher *Matcher
}

func NewValidator(matcher *Matcher) *Validator {
	return &Validator{matcher: matcher}
}

// Validate runs the parameter-specific validator for param.
func (v *Validator) Validate(param wizard.Parameter, text, language string) Outcome {
	switch param {
	case wizard.ParamName:
		return v.validateName(text)
	case wizard.ParamPH:
		return v.validatePH(text, language)
	case wizard.ParamLocation:
		return v.validateLocation(text, language)
	case wizard.ParamFertilizerUsed:
		return v.validateFertilizerUsed(text, language)
	case wizard.ParamColor, wizard.ParamMoisture, wizard.ParamSmell,
		wizard.ParamSoilType, wizard.ParamEarthworms:
		return v.validateCanonical(param, text, language)
	default:
		return notConfident
	}
}

// IsHelpRequest reports whether the text contains a language-specific help
// indicator. Exposed for the intent classifier's fast path.
func IsHelpRequest(text, language string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, indicator := range helpIndicators[language] {
		if strings.Contains(normalized, indicator) {
			return true
		}
	}
	return false
}

func (v *Validator) validateName(text string) Outcome {
	normalized := strings.TrimSpace(text)
	if len(normalized) >= 2 {
		return Outcome{Value: normalized, Confident: true}
	}
	return notConfident
}

func (v *Validator) validateCanonical(param wizard.Parameter, text, language string) Outcome {
	if IsHelpRequest(text, language) {
		return notConfident
	}

	label, score := v.matcher.MatchCanonical(text, labelTable(param))
	if label != "" && v.matcher.Accepts(score) {
		return Outcome{Value: label, Confident: true}
	}
	return notConfident
}

func (v *Validator) validatePH(text, language string) Outcome {
	if IsHelpRequest(text, language) {
		return notConfident
	}

	normalized := strings.ToLower(strings.TrimSpace(text))

	// Numeric pH wins over category words
	if match := numberPattern.FindString(normalized); match != "" {
		if value, err := strconv.ParseFloat(match, 64); err == nil && value >= 0 && value <= 14 {
			return Outcome{
				Value:     phCategory(value),
				PHValue:   &value,
				Confident: true,
			}
		}
	}

	label, score := v.matcher.MatchCanonical(text, phLabels)
	if label != "" && v.matcher.Accepts(score) {
		return Outcome{Value: label, Confident: true}
	}
	return notConfident
}

func phCategory(value float64) string {
	switch {
	case value < phVeryAcidicBelow:
		return "very_acidic"
	case value < phAcidicBelow:
		return "acidic"
	case value <= phNeutralUpTo:
		return "neutral"
	case value < phAlkalineBelow:
		return "alkaline"
	default:
		return "very_alkaline"
	}
}

func (v *Validator) validateLocation(text, language string) Outcome {
	if IsHelpRequest(text, language) {
		return notConfident
	}

	// Open vocabulary: any reasonable-length text is a location
	normalized := strings.ToLower(strings.TrimSpace(text))
	if len(normalized) > 2 {
		return Outcome{Value: normalized, Confident: true}
	}
	return notConfident
}

func (v *Validator) validateFertilizerUsed(text, language string) Outcome {
	if IsHelpRequest(text, language) {
		return notConfident
	}

	normalized := strings.ToLower(strings.TrimSpace(text))

	// yes/no first, then accept the text as a fertilizer name
	label, score := v.matcher.MatchCanonical(text, yesNoLabels)
	if label != "" && score >= 0.60 {
		return Outcome{Value: label, Confident: true}
	}

	if len(normalized) > 2 {
		return Outcome{Value: normalized, Confident: true}
	}
	return notConfident
}

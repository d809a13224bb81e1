package store

import "time"

// Language codes supported by the wizard
const (
	LanguageHindi   = "hi"
	LanguageEnglish = "en"
)

// SoilAnswers holds every value collected during the wizard flow.
// Fields stay nil until their step is answered; once set they are never
// cleared for the lifetime of the session.
type SoilAnswers struct {
	Name           *string  `json:"name"`
	Color          *string  `json:"color"`
	Moisture       *string  `json:"moisture"`
	Smell          *string  `json:"smell"`
	PHCategory     *string  `json:"ph_category"`
	PHValue        *float64 `json:"ph_value"`
	SoilType       *string  `json:"soil_type"`
	Earthworms     *string  `json:"earthworms"`
	Location       *string  `json:"location"`
	FertilizerUsed *string  `json:"fertilizer_used"`
}

// Session represents the active wizard state for one farmer.
// CurrentParameter is empty once every step has been answered.
type Session struct {
	ID               string      `json:"id"`
	Language         string      `json:"language"` // "hi" | "en"
	CurrentParameter string      `json:"current_parameter"`
	Answers          SoilAnswers `json:"answers"`
	HelpMode         bool        `json:"help_mode"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// IsComplete reports whether every parameter has been collected.
func (s *Session) IsComplete() bool {
	return s.CurrentParameter == ""
}

// TurnAudit carries the per-turn confidence trail. It is returned in the
// response payload for observability and never feeds back into later turns.
type TurnAudit struct {
	Intent              string   `json:"intent,omitempty"`
	IntentConfidence    float64  `json:"intent_confidence,omitempty"`
	ASRText             string   `json:"asr_text,omitempty"`
	ASRConfidence       float64  `json:"asr_conf"`
	ValidatorConfidence float64  `json:"validator_conf"`
	LLMConfidence       float64  `json:"llm_conf"`
	CombinedConfidence  float64  `json:"combined_conf"`
	ExtractedValue      string   `json:"llm_extraction,omitempty"`
	HelpRequest         bool     `json:"help_request,omitempty"`
	FollowUp            bool     `json:"is_follow_up,omitempty"`
	RetrievedChunks     []string `json:"retrieved_chunks,omitempty"`
}

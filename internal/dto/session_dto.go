package dto

import (
	"io"

	"argovers-soil-be/pkg/store"
)

type StartSessionRequest struct {
	Language string `json:"language" validate:"required,oneof=en hi"`
}

type StartSessionResponse struct {
	SessionID  string `json:"session_id"`
	Parameter  string `json:"parameter"`
	Question   string `json:"question"`
	StepNumber int    `json:"step_number"`
	TotalSteps int    `json:"total_steps"`
	AudioURL   string `json:"audio_url,omitempty"`
}

type NextMessageRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	// Message may be empty when Audio carries the turn, or when the farmer
	// submitted nothing; the service answers the empty turn itself.
	Message string `json:"message"`
	// ASRConfidence accompanies client-side transcribed text. Typed turns
	// leave it unset and are treated as fully reliable.
	ASRConfidence *float64 `json:"asr_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	// Audio is spoken turn input, transcribed inside the turn. Populated by
	// the controller from a multipart upload, never from JSON.
	Audio         io.Reader `json:"-"`
	AudioFilename string    `json:"-"`
}

type NextMessageResponse struct {
	SessionID  string            `json:"session_id"`
	Parameter  string            `json:"parameter"`
	Question   string            `json:"question,omitempty"`
	HelperText string            `json:"helper_text,omitempty"`
	Answers    store.SoilAnswers `json:"answers"`
	IsComplete bool              `json:"is_complete"`
	StepNumber int               `json:"step_number"`
	TotalSteps int               `json:"total_steps"`
	HelperMode bool              `json:"helper_mode"`
	AudioURL   string            `json:"audio_url,omitempty"`
	Audit      *store.TurnAudit  `json:"audit,omitempty"`
}

type SessionStateResponse struct {
	SessionID        string            `json:"session_id"`
	Language         string            `json:"language"`
	CurrentParameter string            `json:"current_parameter"`
	Answers          store.SoilAnswers `json:"answers"`
	IsComplete       bool              `json:"is_complete"`
	StepNumber       int               `json:"step_number"`
	TotalSteps       int               `json:"total_steps"`
	HelperMode       bool              `json:"helper_mode"`
}

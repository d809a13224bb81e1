package stt

import (
	"context"
	"io"
)

// Result is one transcription outcome. Confidence feeds the turn's
// confidence fusion; text-only turns report 1.0 upstream instead.
type Result struct {
	Text             string  `json:"text"`
	Confidence       float64 `json:"asr_confidence"`
	DetectedLanguage string  `json:"detected_language,omitempty"`
	Provider         string  `json:"provider"`
}

// Provider transcribes spoken audio into text.
type Provider interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (*Result, error)
}

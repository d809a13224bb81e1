package stt

import (
	"context"
	"errors"
	"io"
)

// ErrTranscriptionDisabled is returned by the noop provider. Callers treat
// it as "text-only deployment", not as a failure.
var ErrTranscriptionDisabled = errors.New("speech transcription is disabled")

// NoopProvider rejects every transcription. Used when no ASR backend is
// configured so the rest of the pipeline runs text-only.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Transcribe(_ context.Context, _ io.Reader, _, _ string) (*Result, error) {
	return nil, ErrTranscriptionDisabled
}

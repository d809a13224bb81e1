package tts

import (
	"fmt"
	"log"
)

// NewSynthesizer selects a TTS backend by name.
func NewSynthesizer(providerType, audioDir, baseURL string, logger *log.Logger) (Synthesizer, error) {
	switch providerType {
	case "google":
		return NewGoogleSynthesizer(audioDir, baseURL, logger)
	case "", "none", "noop":
		return NewNoopSynthesizer(), nil
	default:
		return nil, fmt.Errorf("unsupported TTS provider: %s", providerType)
	}
}

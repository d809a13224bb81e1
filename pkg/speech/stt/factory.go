package stt

import "fmt"

// NewProvider selects an ASR backend by name.
func NewProvider(providerType, apiKey, model string) (Provider, error) {
	switch providerType {
	case "groq":
		if apiKey == "" {
			return nil, fmt.Errorf("groq STT requires an API key")
		}
		return NewGroqProvider(apiKey, model), nil
	case "", "none", "noop":
		return NewNoopProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s", providerType)
	}
}

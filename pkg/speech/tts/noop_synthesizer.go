package tts

// NoopSynthesizer produces no audio. Responses simply carry no audio URL.
type NoopSynthesizer struct{}

func NewNoopSynthesizer() *NoopSynthesizer {
	return &NoopSynthesizer{}
}

func (s *NoopSynthesizer) Synthesize(_, _ string) (string, error) {
	return "", nil
}

func (s *NoopSynthesizer) AudioURL(_ string) string {
	return ""
}

package tts

// Synthesizer converts text into a stored audio clip and returns the
// clip's relative path, e.g. "audio/tts_ab12cd34ef56.mp3". An empty path
// with a nil error means synthesis was skipped.
type Synthesizer interface {
	Synthesize(text, language string) (string, error)
	AudioURL(relativePath string) string
}

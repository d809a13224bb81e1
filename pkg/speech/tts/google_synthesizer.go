package tts

import (
	"crypto/md5"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const translateTTSEndpoint = "https://translate.google.com/translate_tts"

// GoogleSynthesizer fetches speech from the Google Translate TTS endpoint
// and caches clips on disk keyed by a hash of the text and language, so
// repeated questions reuse the same file.
type GoogleSynthesizer struct {
	audioDir string
	baseURL  string
	client   *http.Client
	logger   *log.Logger
}

func NewGoogleSynthesizer(audioDir, baseURL string, logger *log.Logger) (*GoogleSynthesizer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory %s: %w", audioDir, err)
	}
	return &GoogleSynthesizer{
		audioDir: audioDir,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}, nil
}

func (s *GoogleSynthesizer) Synthesize(text, language string) (string, error) {
	if text == "" {
		return "", nil
	}

	hash := md5.Sum([]byte(text + "_" + language))
	filename := fmt.Sprintf("tts_%x.mp3", hash[:6])
	filePath := filepath.Join(s.audioDir, filename)
	relative := "audio/" + filename

	if _, err := os.Stat(filePath); err == nil {
		return relative, nil
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", language)
	query.Set("q", text)

	resp, err := s.client.Get(translateTTSEndpoint + "?" + query.Encode())
	if err != nil {
		return "", fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("TTS endpoint returned status %d", resp.StatusCode)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return relative, nil
}

func (s *GoogleSynthesizer) AudioURL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return s.baseURL + "/" + relativePath
}

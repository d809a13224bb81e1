package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "whisper-large-v3"
)

// GroqProvider transcribes audio through Groq's hosted Whisper endpoint.
type GroqProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGroqProvider(apiKey, model string) *GroqProvider {
	if model == "" {
		model = defaultModel
	}
	return &GroqProvider{
		BaseURL: defaultBaseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type groqSegment struct {
	NoSpeechProb float64 `json:"no_speech_prob"`
}

type groqTranscription struct {
	Text     string        `json:"text"`
	Language string        `json:"language"`
	Segments []groqSegment `json:"segments"`
}

// Transcribe uploads the audio as multipart form data and asks for the
// verbose response so segment speech probabilities can back a confidence.
func (p *GroqProvider) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("failed to copy audio into form: %w", err)
	}
	_ = writer.WriteField("model", p.Model)
	_ = writer.WriteField("response_format", "verbose_json")
	if language != "" {
		_ = writer.WriteField("language", language)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(payload))
	}

	var transcription groqTranscription
	if err := json.NewDecoder(resp.Body).Decode(&transcription); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}

	detected := transcription.Language
	if language != "" {
		detected = language
	}

	return &Result{
		Text:             strings.TrimSpace(transcription.Text),
		Confidence:       estimateConfidence(transcription),
		DetectedLanguage: detected,
		Provider:         "groq",
	}, nil
}

// estimateConfidence inverts the mean no-speech probability across segments.
// Without segments a non-empty transcript gets a middling default.
func estimateConfidence(t groqTranscription) float64 {
	if len(t.Segments) > 0 {
		total := 0.0
		for _, seg := range t.Segments {
			total += seg.NoSpeechProb
		}
		confidence := 1.0 - total/float64(len(t.Segments))
		if confidence < 0 {
			return 0
		}
		if confidence > 1 {
			return 1
		}
		return confidence
	}
	if strings.TrimSpace(t.Text) != "" {
		return 0.75
	}
	return 0.5
}

package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"argovers-soil-be/internal/dto"
	"argovers-soil-be/internal/repository/memory"
	"argovers-soil-be/pkg/kb"
	"argovers-soil-be/pkg/rag/helper"
	"argovers-soil-be/pkg/speech/stt"
	"argovers-soil-be/pkg/speech/tts"
	"argovers-soil-be/pkg/wizard/extract"
	"argovers-soil-be/pkg/wizard/gate"
	"argovers-soil-be/pkg/wizard/intent"
	"argovers-soil-be/pkg/wizard/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeSTT struct {
	result *stt.Result
	err    error
}

func (f *fakeSTT) Transcribe(_ context.Context, _ io.Reader, _, _ string) (*stt.Result, error) {
	return f.result, f.err
}

// newTestService wires the full turn pipeline with no model, no embeddings
// and no speech backends, so every decision comes from the deterministic
// stages.
func newTestService() ISessionService {
	return newTestServiceWithSTT(stt.NewNoopProvider())
}

func newTestServiceWithSTT(sttProvider stt.Provider) ISessionService {
	return NewSessionService(
		memory.NewSessionRepository(time.Hour),
		intent.NewClassifier(nil, nil),
		extract.NewExtractor(nil, nil),
		validate.NewValidator(validate.NewMatcher(nil, 0, nil)),
		gate.NewPolicy(0),
		kb.NewRetriever(kb.NewCorpus(nil, nil)),
		helper.NewGenerator(nil, nil),
		sttProvider,
		tts.NewNoopSynthesizer(),
		noopLogger{},
	)
}

func next(t *testing.T, svc ISessionService, sessionID, message string) *dto.NextMessageResponse {
	t.Helper()
	resp, err := svc.Next(context.Background(), &dto.NextMessageRequest{
		SessionID: sessionID,
		Message:   message,
	})
	require.NoError(t, err)
	return resp
}

func TestSessionWalkthrough(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	started, err := svc.Start(ctx, &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)
	require.NotEmpty(t, started.SessionID)
	assert.Equal(t, "name", started.Parameter)
	assert.Equal(t, 1, started.StepNumber)
	assert.Equal(t, 9, started.TotalSteps)

	id := started.SessionID

	resp := next(t, svc, id, "John")
	assert.Equal(t, "color", resp.Parameter)
	assert.Equal(t, 2, resp.StepNumber)
	assert.False(t, resp.HelperMode)
	require.NotNil(t, resp.Answers.Name)
	assert.Equal(t, "John", *resp.Answers.Name)

	resp = next(t, svc, id, "black soil")
	assert.Equal(t, "moisture", resp.Parameter)
	require.NotNil(t, resp.Answers.Color)
	assert.Equal(t, "black", *resp.Answers.Color)

	// Asking for help shows guidance and keeps the schedule in place
	resp = next(t, svc, id, "I don't know")
	assert.True(t, resp.HelperMode)
	assert.Equal(t, "moisture", resp.Parameter)
	assert.Equal(t, 3, resp.StepNumber)
	assert.Nil(t, resp.Answers.Moisture)
	assert.Contains(t, resp.HelperText, "moisture")
	require.NotNil(t, resp.Audit)
	assert.True(t, resp.Audit.HelpRequest)
	assert.Equal(t, intent.IntentHelpRequest, resp.Audit.Intent)
	assert.Equal(t, 0.0, resp.Audit.ValidatorConfidence)

	resp = next(t, svc, id, "wet")
	assert.Equal(t, "smell", resp.Parameter)
	assert.False(t, resp.HelperMode)

	resp = next(t, svc, id, "earthy")
	assert.Equal(t, "ph", resp.Parameter)

	resp = next(t, svc, id, "7.2")
	assert.Equal(t, "soil_type", resp.Parameter)
	require.NotNil(t, resp.Answers.PHCategory)
	assert.Equal(t, "neutral", *resp.Answers.PHCategory)
	require.NotNil(t, resp.Answers.PHValue)
	assert.Equal(t, 7.2, *resp.Answers.PHValue)

	resp = next(t, svc, id, "clay")
	assert.Equal(t, "earthworms", resp.Parameter)

	resp = next(t, svc, id, "many")
	assert.Equal(t, "location", resp.Parameter)

	resp = next(t, svc, id, "Sonipat village, Haryana")
	assert.Equal(t, "fertilizer_used", resp.Parameter)
	require.NotNil(t, resp.Answers.Location)
	assert.Equal(t, "sonipat village, haryana", *resp.Answers.Location)

	resp = next(t, svc, id, "urea and compost")
	assert.True(t, resp.IsComplete)
	assert.Equal(t, "", resp.Parameter)
	assert.Equal(t, 9, resp.StepNumber)
	require.NotNil(t, resp.Answers.FertilizerUsed)
	assert.Equal(t, "urea and compost", *resp.Answers.FertilizerUsed)

	state, err := svc.GetState(id)
	require.NoError(t, err)
	assert.True(t, state.IsComplete)
	assert.Equal(t, 9, state.StepNumber)

	// Turns after completion are a no-op
	resp = next(t, svc, id, "anything else")
	assert.True(t, resp.IsComplete)
}

func TestNextAuditConfidences(t *testing.T) {
	svc := newTestService()
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)

	// Typed input is treated as perfectly recognized
	resp := next(t, svc, started.SessionID, "John")
	require.NotNil(t, resp.Audit)
	assert.Equal(t, 1.0, resp.Audit.ASRConfidence)
	assert.Equal(t, gate.ValidatorConfident, resp.Audit.ValidatorConfidence)
	assert.Equal(t, gate.ValidatorConfident, resp.Audit.CombinedConfidence)

	// A reported recognition confidence flows into the audit trail
	asrConf := 0.9
	withASR, err := svc.Next(context.Background(), &dto.NextMessageRequest{
		SessionID:     started.SessionID,
		Message:       "black",
		ASRConfidence: &asrConf,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.9, withASR.Audit.ASRConfidence)
	assert.Equal(t, "black", withASR.Audit.ASRText)
}

func TestNextEmptyMessage(t *testing.T) {
	svc := newTestService()
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)

	resp := next(t, svc, started.SessionID, "   ")
	assert.Equal(t, "name", resp.Parameter)
	assert.Contains(t, resp.HelperText, "No input provided")
	// The session was never put into help mode, so the response must not
	// claim it was
	assert.False(t, resp.HelperMode)

	state, err := svc.GetState(started.SessionID)
	require.NoError(t, err)
	assert.False(t, state.HelperMode)
}

func TestNextWithAudio(t *testing.T) {
	svc := newTestServiceWithSTT(&fakeSTT{result: &stt.Result{Text: "John", Confidence: 0.92}})
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)

	resp, err := svc.Next(context.Background(), &dto.NextMessageRequest{
		SessionID:     started.SessionID,
		Audio:         strings.NewReader("fake wav bytes"),
		AudioFilename: "turn.wav",
	})
	require.NoError(t, err)

	assert.Equal(t, "color", resp.Parameter)
	require.NotNil(t, resp.Answers.Name)
	assert.Equal(t, "John", *resp.Answers.Name)
	require.NotNil(t, resp.Audit)
	assert.Equal(t, 0.92, resp.Audit.ASRConfidence)
	assert.Equal(t, "John", resp.Audit.ASRText)
}

func TestNextAudioTranscriptionFailure(t *testing.T) {
	svc := newTestServiceWithSTT(&fakeSTT{err: errors.New("whisper unavailable")})
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)

	// A failed transcription degrades to an empty zero-confidence turn
	// instead of surfacing a transport error
	resp, err := svc.Next(context.Background(), &dto.NextMessageRequest{
		SessionID:     started.SessionID,
		Audio:         strings.NewReader("fake wav bytes"),
		AudioFilename: "turn.wav",
	})
	require.NoError(t, err)

	assert.Equal(t, "name", resp.Parameter)
	assert.Contains(t, resp.HelperText, "try again")
	assert.False(t, resp.IsComplete)
	assert.Nil(t, resp.Answers.Name)
	require.NotNil(t, resp.Audit)
	assert.Equal(t, 0.0, resp.Audit.ASRConfidence)
}

func TestConcurrentTurnAndStatePolling(t *testing.T) {
	svc := newTestService()
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)

	answers := []string{"John", "black soil", "wet", "earthy", "7.2", "clay", "many", "Sonipat, Haryana", "urea"}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, msg := range answers {
			if _, err := svc.Next(context.Background(), &dto.NextMessageRequest{
				SessionID: started.SessionID,
				Message:   msg,
			}); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	// Poll state concurrently with the running turns; the repository lock
	// serializes the reads against in-flight mutations
	for polling := true; polling; {
		select {
		case <-done:
			polling = false
		default:
			if _, err := svc.GetState(started.SessionID); err != nil {
				t.Fatal(err)
			}
		}
	}

	state, err := svc.GetState(started.SessionID)
	require.NoError(t, err)
	assert.True(t, state.IsComplete)
}

func TestHindiSession(t *testing.T) {
	svc := newTestService()
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "hi"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(started.Question, "नाम"))

	resp := next(t, svc, started.SessionID, "रमेश कुमार")
	assert.Equal(t, "color", resp.Parameter)

	resp = next(t, svc, started.SessionID, "काली")
	require.NotNil(t, resp.Answers.Color)
	assert.Equal(t, "black", *resp.Answers.Color)

	// Help request in Hindi gets the Hindi fallback guidance
	resp = next(t, svc, started.SessionID, "नहीं पता")
	assert.True(t, resp.HelperMode)
	assert.Contains(t, resp.HelperText, "किसान भाई")
}

func TestSessionNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Next(context.Background(), &dto.NextMessageRequest{SessionID: "missing", Message: "hi"})
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)

	_, err = svc.GetState("missing")
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)

	require.ErrorAs(t, svc.Delete("missing"), &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService()
	started, err := svc.Start(context.Background(), &dto.StartSessionRequest{Language: "en"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(started.SessionID))
	_, err = svc.GetState(started.SessionID)
	assert.Error(t, err)
}

func TestTranscribeNotConfigured(t *testing.T) {
	svc := newTestService()

	_, err := svc.Transcribe(context.Background(), strings.NewReader("audio"), "turn.wav", "en")
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotImplemented, fiberErr.Code)
}

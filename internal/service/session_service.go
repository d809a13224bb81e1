package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"argovers-soil-be/internal/dto"
	"argovers-soil-be/internal/pkg/logger"
	"argovers-soil-be/internal/repository/memory"
	"argovers-soil-be/pkg/kb"
	"argovers-soil-be/pkg/rag/helper"
	"argovers-soil-be/pkg/speech/stt"
	"argovers-soil-be/pkg/speech/tts"
	"argovers-soil-be/pkg/store"
	"argovers-soil-be/pkg/wizard"
	"argovers-soil-be/pkg/wizard/extract"
	"argovers-soil-be/pkg/wizard/gate"
	"argovers-soil-be/pkg/wizard/intent"
	"argovers-soil-be/pkg/wizard/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Turn decision thresholds.
const (
	helpIntentThreshold       = 0.70
	extractionAcceptThreshold = 0.80

	retrievalK       = 10
	auditChunkLimit  = 2
	helperChunkLimit = 5
)

// Parameters answered with free text. Intent for these is resolved with a
// phrase check instead of the full cascade, because almost any utterance
// is a valid answer.
var simpleParameters = map[wizard.Parameter]bool{
	wizard.ParamName:           true,
	wizard.ParamLocation:       true,
	wizard.ParamFertilizerUsed: true,
}

var explicitHelpPhrases = []string{"help", "मदद", "don't know", "नहीं पता", "how", "कैसे"}

type ISessionService interface {
	Start(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	Next(ctx context.Context, req *dto.NextMessageRequest) (*dto.NextMessageResponse, error)
	GetState(sessionID string) (*dto.SessionStateResponse, error)
	Delete(sessionID string) error
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (*stt.Result, error)
}

type sessionService struct {
	sessionRepo *memory.SessionRepository
	classifier  *intent.Classifier
	extractor   *extract.Extractor
	validator   *validate.Validator
	policy      *gate.Policy
	retriever   *kb.Retriever
	helperGen   *helper.Generator
	sttProvider stt.Provider
	synthesizer tts.Synthesizer
	logger      logger.ILogger
}

func NewSessionService(
	sessionRepo *memory.SessionRepository,
	classifier *intent.Classifier,
	extractor *extract.Extractor,
	validator *validate.Validator,
	policy *gate.Policy,
	retriever *kb.Retriever,
	helperGen *helper.Generator,
	sttProvider stt.Provider,
	synthesizer tts.Synthesizer,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		classifier:  classifier,
		extractor:   extractor,
		validator:   validator,
		policy:      policy,
		retriever:   retriever,
		helperGen:   helperGen,
		sttProvider: sttProvider,
		synthesizer: synthesizer,
		logger:      log,
	}
}

func (s *sessionService) Start(_ context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	first := wizard.First()
	session := &store.Session{
		ID:               uuid.NewString(),
		Language:         req.Language,
		CurrentParameter: string(first),
		CreatedAt:        time.Now(),
	}
	s.sessionRepo.Save(session)

	question := wizard.Question(first, session.Language)

	s.logger.Info("SessionService", "session started", map[string]interface{}{
		"session_id": session.ID,
		"language":   session.Language,
	})

	return &dto.StartSessionResponse{
		SessionID:  session.ID,
		Parameter:  string(first),
		Question:   question,
		StepNumber: wizard.Index(first),
		TotalSteps: wizard.TotalSteps(),
		AudioURL:   s.synthesizeQuietly(question, session.Language),
	}, nil
}

// Next runs one wizard turn. Turns for the same session are serialized so
// two concurrent requests cannot both advance the schedule.
func (s *sessionService) Next(ctx context.Context, req *dto.NextMessageRequest) (*dto.NextMessageResponse, error) {
	s.sessionRepo.Lock(req.SessionID)
	defer s.sessionRepo.Unlock(req.SessionID)

	session, found := s.sessionRepo.Get(req.SessionID)
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("session %s not found", req.SessionID))
	}

	if session.IsComplete() {
		return s.completeResponse(session, nil), nil
	}

	audit := &store.TurnAudit{}
	message := req.Message
	switch {
	case req.Audio != nil:
		// Spoken turn: transcribe in-line. A recognition failure degrades to
		// an empty zero-confidence turn so the farmer is asked to try again
		// in their language instead of seeing a transport error.
		result, err := s.sttProvider.Transcribe(ctx, req.Audio, req.AudioFilename, session.Language)
		if err != nil {
			s.logger.Warn("SessionService", "turn transcription failed", map[string]interface{}{
				"session_id": session.ID,
				"error":      err.Error(),
			})
			audit.ASRConfidence = 0.0
			message = ""
		} else {
			message = result.Text
			audit.ASRConfidence = result.Confidence
			audit.ASRText = result.Text
		}
	case req.ASRConfidence != nil:
		audit.ASRConfidence = *req.ASRConfidence
		audit.ASRText = req.Message
	default:
		// Typed input carries no recognition uncertainty
		audit.ASRConfidence = 1.0
	}

	userMessage := strings.TrimSpace(message)
	if userMessage == "" {
		return s.errorResponse(session, "No input provided", audit), nil
	}

	currentParam := wizard.Parameter(session.CurrentParameter)
	language := session.Language

	// Step 1: classify intent
	var turnIntent string
	var intentConf float64
	if simpleParameters[currentParam] {
		if containsAnyPhrase(strings.ToLower(userMessage), explicitHelpPhrases) {
			turnIntent, intentConf = intent.IntentHelpRequest, 0.90
		} else {
			turnIntent, intentConf = intent.IntentAnswer, 0.95
		}
	} else {
		turnIntent, intentConf = s.classifier.Classify(ctx, userMessage, currentParam, language)
	}
	audit.Intent = turnIntent
	audit.IntentConfidence = intentConf
	isFollowUp := turnIntent == intent.IntentHelpRequest && intentConf == intent.FollowUpConfidence

	// Step 2: resolve a value, unless this is clearly a help request
	var outcome validate.Outcome
	if turnIntent == intent.IntentHelpRequest && intentConf >= helpIntentThreshold {
		audit.ValidatorConfidence = 0.0
		audit.HelpRequest = true
		audit.FollowUp = isFollowUp
	} else {
		if extracted, conf := s.extractor.Extract(ctx, userMessage, currentParam, language); extracted != "" && conf >= extractionAcceptThreshold {
			outcome = validate.Outcome{Value: extracted, Confident: true}
			audit.ValidatorConfidence = conf
			audit.ExtractedValue = extracted
		} else {
			if !wizard.Known(currentParam) {
				return s.skipUnknownParameter(session), nil
			}
			outcome = s.validator.Validate(currentParam, userMessage, language)
			switch {
			case outcome.Confident && outcome.Value != "":
				audit.ValidatorConfidence = gate.ValidatorConfident
			case outcome.Value != "":
				audit.ValidatorConfidence = gate.ValidatorValueOnly
			default:
				audit.ValidatorConfidence = gate.ValidatorNone
			}
		}
	}

	// Step 3: accept without the helper when the signal is strong enough
	if outcome.Confident && outcome.Value != "" {
		audit.CombinedConfidence = audit.ValidatorConfidence
		audit.LLMConfidence = 0.0
		return s.autoFillAndAdvance(session, currentParam, outcome, audit), nil
	}

	prelim := s.policy.Combined(gate.Signals{ASR: audit.ASRConfidence, Validator: audit.ValidatorConfidence})
	if outcome.Value != "" && prelim >= s.policy.Threshold() {
		audit.CombinedConfidence = prelim
		audit.LLMConfidence = 0.0
		return s.autoFillAndAdvance(session, currentParam, outcome, audit), nil
	}

	// Step 4: helper mode. Guidance is shown and nothing is auto-filled;
	// the next turn collects the real answer.
	s.logger.Info("SessionService", "entering helper mode", map[string]interface{}{
		"session_id": session.ID,
		"parameter":  currentParam,
		"follow_up":  isFollowUp,
	})

	query := helper.BuildQuery(currentParam, userMessage, language)
	var chunks []string
	if s.retriever.IsReady() {
		chunks = s.retriever.Retrieve(query, currentParam, language, retrievalK)
		if len(chunks) > auditChunkLimit {
			audit.RetrievedChunks = chunks[:auditChunkLimit]
		} else {
			audit.RetrievedChunks = chunks
		}
	}

	helperChunks := chunks
	if len(helperChunks) > helperChunkLimit {
		helperChunks = helperChunks[:helperChunkLimit]
	}
	helperText := s.helperGen.Generate(ctx, currentParam, userMessage, language, helperChunks)

	audit.LLMConfidence = gate.EstimateLLMConfidence(helperText, len(chunks))
	audit.CombinedConfidence = s.policy.Combined(gate.Signals{
		ASR:       audit.ASRConfidence,
		Validator: audit.ValidatorConfidence,
		LLM:       audit.LLMConfidence,
	})

	session.HelpMode = true
	s.sessionRepo.Save(session)

	return &dto.NextMessageResponse{
		SessionID:  session.ID,
		Parameter:  string(currentParam),
		HelperText: helperText,
		Answers:    session.Answers,
		IsComplete: false,
		StepNumber: wizard.Index(currentParam),
		TotalSteps: wizard.TotalSteps(),
		HelperMode: true,
		AudioURL:   s.synthesizeQuietly(helperText, language),
		Audit:      audit,
	}, nil
}

func (s *sessionService) autoFillAndAdvance(session *store.Session, param wizard.Parameter, outcome validate.Outcome, audit *store.TurnAudit) *dto.NextMessageResponse {
	s.logger.Info("SessionService", "answer accepted", map[string]interface{}{
		"session_id": session.ID,
		"parameter":  param,
		"value":      outcome.Value,
		"confidence": audit.CombinedConfidence,
	})

	applyAnswer(&session.Answers, param, outcome)
	session.HelpMode = false
	nextParam := wizard.Next(param)
	session.CurrentParameter = string(nextParam)
	s.sessionRepo.Save(session)

	if session.IsComplete() {
		return s.completeResponse(session, audit)
	}
	question := wizard.Question(nextParam, session.Language)

	return &dto.NextMessageResponse{
		SessionID:  session.ID,
		Parameter:  string(nextParam),
		Question:   question,
		Answers:    session.Answers,
		IsComplete: false,
		StepNumber: wizard.Index(nextParam),
		TotalSteps: wizard.TotalSteps(),
		HelperMode: false,
		AudioURL:   s.synthesizeQuietly(question, session.Language),
		Audit:      audit,
	}
}

func (s *sessionService) completeResponse(session *store.Session, audit *store.TurnAudit) *dto.NextMessageResponse {
	return &dto.NextMessageResponse{
		SessionID:  session.ID,
		Parameter:  "",
		Answers:    session.Answers,
		IsComplete: true,
		StepNumber: wizard.TotalSteps(),
		TotalSteps: wizard.TotalSteps(),
		HelperMode: false,
		Audit:      audit,
	}
}

func (s *sessionService) errorResponse(session *store.Session, message string, audit *store.TurnAudit) *dto.NextMessageResponse {
	var helperText string
	if session.Language == store.LanguageHindi {
		helperText = fmt.Sprintf("माफ करें, %s। कृपया पुनः प्रयास करें।", message)
	} else {
		helperText = fmt.Sprintf("Sorry, %s. Please try again.", message)
	}

	return &dto.NextMessageResponse{
		SessionID:  session.ID,
		Parameter:  session.CurrentParameter,
		HelperText: helperText,
		Answers:    session.Answers,
		IsComplete: false,
		StepNumber: wizard.Index(wizard.Parameter(session.CurrentParameter)),
		TotalSteps: wizard.TotalSteps(),
		HelperMode: session.HelpMode,
		AudioURL:   s.synthesizeQuietly(helperText, session.Language),
		Audit:      audit,
	}
}

func (s *sessionService) skipUnknownParameter(session *store.Session) *dto.NextMessageResponse {
	nextParam := wizard.Next(wizard.Parameter(session.CurrentParameter))
	session.CurrentParameter = string(nextParam)
	session.HelpMode = false
	s.sessionRepo.Save(session)

	if session.IsComplete() {
		return s.completeResponse(session, nil)
	}
	return &dto.NextMessageResponse{
		SessionID:  session.ID,
		Parameter:  string(nextParam),
		Question:   wizard.Question(nextParam, session.Language),
		Answers:    session.Answers,
		IsComplete: false,
		StepNumber: wizard.Index(nextParam),
		TotalSteps: wizard.TotalSteps(),
		HelperMode: false,
	}
}

func (s *sessionService) GetState(sessionID string) (*dto.SessionStateResponse, error) {
	// A turn in flight mutates the cached session; reads take the same lock.
	s.sessionRepo.Lock(sessionID)
	defer s.sessionRepo.Unlock(sessionID)

	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("session %s not found", sessionID))
	}

	stepNumber := wizard.TotalSteps()
	if !session.IsComplete() {
		stepNumber = wizard.Index(wizard.Parameter(session.CurrentParameter))
	}

	return &dto.SessionStateResponse{
		SessionID:        session.ID,
		Language:         session.Language,
		CurrentParameter: session.CurrentParameter,
		Answers:          session.Answers,
		IsComplete:       session.IsComplete(),
		StepNumber:       stepNumber,
		TotalSteps:       wizard.TotalSteps(),
		HelperMode:       session.HelpMode,
	}, nil
}

func (s *sessionService) Delete(sessionID string) error {
	s.sessionRepo.Lock(sessionID)
	defer s.sessionRepo.Unlock(sessionID)

	if _, found := s.sessionRepo.Get(sessionID); !found {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	s.sessionRepo.Delete(sessionID)
	return nil
}

func (s *sessionService) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (*stt.Result, error) {
	result, err := s.sttProvider.Transcribe(ctx, audio, filename, language)
	if err != nil {
		if err == stt.ErrTranscriptionDisabled {
			return nil, fiber.NewError(fiber.StatusNotImplemented, "speech transcription is not configured")
		}
		s.logger.Error("SessionService", "transcription failed", map[string]interface{}{"error": err.Error()})
		return nil, fiber.NewError(fiber.StatusBadGateway, "transcription failed")
	}
	return result, nil
}

func (s *sessionService) synthesizeQuietly(text, language string) string {
	if text == "" {
		return ""
	}
	path, err := s.synthesizer.Synthesize(text, language)
	if err != nil {
		s.logger.Warn("SessionService", "tts synthesis failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return s.synthesizer.AudioURL(path)
}

func applyAnswer(answers *store.SoilAnswers, param wizard.Parameter, outcome validate.Outcome) {
	value := outcome.Value
	switch param {
	case wizard.ParamName:
		answers.Name = &value
	case wizard.ParamColor:
		answers.Color = &value
	case wizard.ParamMoisture:
		answers.Moisture = &value
	case wizard.ParamSmell:
		answers.Smell = &value
	case wizard.ParamPH:
		answers.PHCategory = &value
		if outcome.PHValue != nil {
			answers.PHValue = outcome.PHValue
		}
	case wizard.ParamSoilType:
		answers.SoilType = &value
	case wizard.ParamEarthworms:
		answers.Earthworms = &value
	case wizard.ParamLocation:
		answers.Location = &value
	case wizard.ParamFertilizerUsed:
		answers.FertilizerUsed = &value
	}
}

func containsAnyPhrase(haystack string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(haystack, phrase) {
			return true
		}
	}
	return false
}

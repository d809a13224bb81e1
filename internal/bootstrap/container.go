package bootstrap

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"argovers-soil-be/internal/config"
	"argovers-soil-be/internal/controller"
	"argovers-soil-be/internal/pkg/logger"
	"argovers-soil-be/internal/repository/memory"
	"argovers-soil-be/internal/service"
	"argovers-soil-be/pkg/embedding"
	"argovers-soil-be/pkg/kb"
	"argovers-soil-be/pkg/llm/factory"
	"argovers-soil-be/pkg/rag/helper"
	"argovers-soil-be/pkg/report"
	"argovers-soil-be/pkg/speech/stt"
	"argovers-soil-be/pkg/speech/tts"
	"argovers-soil-be/pkg/wizard/extract"
	"argovers-soil-be/pkg/wizard/gate"
	"argovers-soil-be/pkg/wizard/intent"
	"argovers-soil-be/pkg/wizard/validate"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ReportController  controller.IReportController

	// Background Services (Exposed for main.go to run)
	ReportService service.IReportService

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := initLLMLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GroqAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Optional embedding-backed similarity for the validators
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		log.Printf("[INFO] Embedding provider disabled, validators use fuzzy matching")
	}

	sttProvider, err := stt.NewProvider(cfg.Speech.STTProvider, cfg.Ai.GroqAPIKey, cfg.Speech.STTModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize STT Provider: %v", err)
	}
	synthesizer, err := tts.NewSynthesizer(cfg.Speech.TTSProvider, cfg.App.AudioDir, cfg.App.BaseURL, llmLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize TTS Provider: %v", err)
	}

	// 4. Wizard Components
	matcher := validate.NewMatcher(embeddingProvider, cfg.Wizard.SimilarityThreshold, llmLogger)
	validator := validate.NewValidator(matcher)
	classifier := intent.NewClassifier(llmProvider, llmLogger)
	extractor := extract.NewExtractor(llmProvider, llmLogger)
	policy := gate.NewPolicy(cfg.Wizard.AutoFillThreshold)

	corpus := kb.LoadCorpus(cfg.Wizard.KnowledgeBasePath, llmLogger)
	retriever := kb.NewRetriever(corpus)
	helperGen := helper.NewGenerator(llmProvider, llmLogger)

	// 5. Storage
	sessionTTL := time.Duration(cfg.Wizard.SessionTTLMinutes) * time.Minute
	sessionRepo := memory.NewSessionRepository(sessionTTL)
	reportRepo := memory.NewReportRepository(sessionTTL)

	// 6. Services
	sessionService := service.NewSessionService(
		sessionRepo,
		classifier,
		extractor,
		validator,
		policy,
		retriever,
		helperGen,
		sttProvider,
		synthesizer,
		sysLogger,
	)

	reportOrchestrator := report.NewOrchestrator(llmProvider, llmLogger)
	reportService := service.NewReportService(
		pubSub,
		cfg.Report.GenerateTopic,
		sessionRepo,
		reportRepo,
		reportOrchestrator,
		sysLogger,
	)

	// 7. Controllers
	sessionController := controller.NewSessionController(sessionService)
	reportController := controller.NewReportController(reportService)

	return &Container{
		SessionController: sessionController,
		ReportController:  reportController,
		ReportService:     reportService,
		Logger:            sysLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Ai     AIConfig
	Speech SpeechConfig
	Wizard WizardConfig
	Report ReportConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	AudioDir           string
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "groq"
	LLMModel          string // e.g. "mistral", "llama-3.3-70b-versatile"
	OllamaBaseURL     string
	GroqAPIKey        string
	EmbeddingProvider string // "ollama" or "none"
	OllamaEmbedModel  string
}

type SpeechConfig struct {
	STTProvider string // "groq" or "none"
	STTModel    string
	TTSProvider string // "google" or "none"
}

type WizardConfig struct {
	KnowledgeBasePath   string
	SimilarityThreshold float64
	AutoFillThreshold   float64
	SessionTTLMinutes   int
}

type ReportConfig struct {
	GenerateTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8001"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			AudioDir:           getEnv("AUDIO_DIR", "data/audio"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "mistral"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GroqAPIKey:        getEnv("GROQ_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "none"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Speech: SpeechConfig{
			STTProvider: getEnv("STT_PROVIDER", "none"),
			STTModel:    getEnv("STT_MODEL", "whisper-large-v3"),
			TTSProvider: getEnv("TTS_PROVIDER", "none"),
		},
		Wizard: WizardConfig{
			KnowledgeBasePath:   getEnv("KB_PATH", "data/kb_chunks.json"),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.40),
			AutoFillThreshold:   getEnvAsFloat("AUTO_FILL_THRESHOLD", 0.60),
			SessionTTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Report: ReportConfig{
			GenerateTopic: getEnv("REPORT_GENERATE_TOPIC_NAME", "REPORT_GENERATE"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

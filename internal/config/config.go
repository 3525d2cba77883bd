package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Corpus   CorpusConfig
	Ai       AIConfig
	Reading  ReadingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	ArchiveTopic       string
}

type DatabaseConfig struct {
	Connection string
}

type CorpusConfig struct {
	Path string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string
	GeminiAPIKey      string
}

type ReadingConfig struct {
	CacheTTL           time.Duration
	RetrievalTopK      int
	RetrievalThreshold float64
	RetrievalTimeout   time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			ArchiveTopic:       getEnv("READING_ARCHIVE_TOPIC_NAME", "ARCHIVE_READING"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Corpus: CorpusConfig{
			Path: getEnv("CORPUS_PATH", "data/cards.json"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Reading: ReadingConfig{
			CacheTTL:           getEnvAsDuration("READING_CACHE_TTL", 15*time.Minute),
			RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 3),
			RetrievalThreshold: getEnvAsFloat("RETRIEVAL_THRESHOLD", 0.35),
			RetrievalTimeout:   getEnvAsDuration("RETRIEVAL_TIMEOUT", 5*time.Second),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

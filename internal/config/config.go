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
	Keys     APIKeys
	Ai       AIConfig
	Chat     ChatConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventSubject       string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	Upstage      string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string // embedding model served by ollama
	LLMProvider       string // "gemini", "upstage" or "ollama"
	LLMModel          string
	LLMBaseURL        string
	LLMTimeout        time.Duration
}

type ChatConfig struct {
	MaxMessages         int
	SessionTTL          time.Duration
	CleanupInterval     time.Duration
	MaxSessions         int
	TopK                int
	SimilarityThreshold float64
	TurnTimeout         time.Duration
	RetrievalCacheTTL   time.Duration
	ContextDocumentsTTL time.Duration
	AnalysisSearchTopK  int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			EventSubject:       getEnv("EVENT_SUBJECT_PREFIX", "lawro.events"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Upstage:      getEnv("UPSTAGE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "upstage"),
			LLMModel:          getEnv("LLM_MODEL", "solar-pro"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 25*time.Second),
		},
		Chat: ChatConfig{
			MaxMessages:         getEnvAsInt("CHAT_MAX_MESSAGES", 50),
			SessionTTL:          getEnvAsDuration("CHAT_SESSION_TTL", 5*time.Minute),
			CleanupInterval:     getEnvAsDuration("CHAT_CLEANUP_INTERVAL", time.Minute),
			MaxSessions:         getEnvAsInt("CHAT_MAX_SESSIONS", 1000),
			TopK:                getEnvAsInt("CHAT_TOP_K", 2),
			SimilarityThreshold: getEnvAsFloat("CHAT_SIMILARITY_THRESHOLD", 0.3),
			TurnTimeout:         getEnvAsDuration("CHAT_TURN_TIMEOUT", 30*time.Second),
			RetrievalCacheTTL:   getEnvAsDuration("RETRIEVAL_CACHE_TTL", 10*time.Minute),
			ContextDocumentsTTL: getEnvAsDuration("CONTEXT_DOCUMENTS_TTL", 5*time.Minute),
			AnalysisSearchTopK:  getEnvAsInt("RAG_SEARCH_MAX_RESULTS", 4),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "lawro-be"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

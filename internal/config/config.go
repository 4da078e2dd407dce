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
	Ai       AIConfig
	Vector   VectorConfig
	Timeouts TimeoutConfig
	Chatbot  ChatbotConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	HistoryStore       string // "redis" or "memory"
	TurnTopic          string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Connection string
	// SQLExecutorConnection runs generated statements; it should use a
	// read-only role. Empty means Connection.
	SQLExecutorConnection string
	SQLExecutorMaxConns   int
}

type AIConfig struct {
	LLMProvider        string // "ollama" or "gemini"
	LLMModel           string // e.g. "llama3", "gemini-2.0-flash"
	OllamaBaseURL      string
	GoogleGeminiKey    string
	EmbeddingProvider  string // "ollama" or "gemini"
	EmbeddingModel     string
	EmbeddingDimension int
	EmbeddingCacheTTL  time.Duration
}

type VectorConfig struct {
	Provider         string // "pgvector" or "qdrant"
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
}

// TimeoutConfig bounds each external call made during a turn.
type TimeoutConfig struct {
	LLM       time.Duration
	Embedding time.Duration
	Vector    time.Duration
	SQL       time.Duration
}

type ChatbotConfig struct {
	HistoryCap int
	// DisplayCap is how many turns a session keeps for display. The core
	// only reads the last HistoryCap of them.
	DisplayCap int
	HistoryTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/chatbot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			HistoryStore:       getEnv("HISTORY_STORE", "redis"),
			TurnTopic:          getEnv("CHAT_TURN_TOPIC_NAME", "CHAT_TURN_COMPLETED"),
		},
		Database: DatabaseConfig{
			Connection:            getEnv("DB_CONNECTION_STRING", ""),
			SQLExecutorConnection: getEnv("SQL_EXECUTOR_CONNECTION_STRING", ""),
			SQLExecutorMaxConns:   getEnvAsInt("SQL_EXECUTOR_MAX_CONNS", 10),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GoogleGeminiKey:    getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			EmbeddingCacheTTL:  getEnvAsDuration("EMBEDDING_CACHE_TTL", 10*time.Minute),
		},
		Vector: VectorConfig{
			Provider:         getEnv("VECTOR_PROVIDER", "pgvector"),
			QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
			QdrantPort:       getEnvAsInt("QDRANT_PORT", 6334),
			QdrantCollection: getEnv("QDRANT_COLLECTION", "document_chunks"),
		},
		Timeouts: TimeoutConfig{
			LLM:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			Embedding: getEnvAsDuration("EMBEDDING_TIMEOUT", 15*time.Second),
			Vector:    getEnvAsDuration("VECTOR_TIMEOUT", 10*time.Second),
			SQL:       getEnvAsDuration("SQL_TIMEOUT", 15*time.Second),
		},
		Chatbot: ChatbotConfig{
			HistoryCap: getEnvAsInt("CHAT_HISTORY_CAP", 5),
			DisplayCap: getEnvAsInt("CHAT_DISPLAY_CAP", 20),
			HistoryTTL: getEnvAsDuration("CHAT_HISTORY_TTL", 24*time.Hour),
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

// getEnvAsDuration accepts Go duration strings ("30s") or plain seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

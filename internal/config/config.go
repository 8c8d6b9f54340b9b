package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	OAuth    OAuthConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini     string
	EmbedMemoryTopic string // async embedding topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string // e.g. "llama3", "gemini-2.0-flash"
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "SparkJournal"),
		},
		Keys: APIKeys{
			GoogleGemini:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedMemoryTopic: getEnv("EMBED_MEMORY_TOPIC_NAME", "EMBED_MEMORY"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
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

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Backboard BackboardConfig
	LiveKit   LiveKitConfig
	Platform  PlatformConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Name               string
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTIssuer          string
	JWTAudience        string
}

type DatabaseConfig struct {
	Connection string
}

// BackboardConfig holds credentials and model routing for the hosted
// memory/RAG provider. Chat and voice use separate model configs: chat
// can afford a slower, stronger model while voice needs low latency.
type BackboardConfig struct {
	APIKey          string
	BaseURL         string
	ChatProvider    string
	ChatModel       string
	VoiceProvider   string
	VoiceModel      string
	SharedDocsDir   string
	UploadDelay     time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
}

type LiveKitConfig struct {
	URL       string
	APIKey    string
	APISecret string
}

// PlatformConfig points at the hackathon platform REST API used for the
// proactive activity feed.
type PlatformConfig struct {
	ActivityURL  string
	ServiceKey   string
	PollInterval time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "Hackathon Concierge"),
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTIssuer:          getEnv("JWT_ISSUER", ""),
			JWTAudience:        getEnv("JWT_AUDIENCE", "authenticated"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Backboard: BackboardConfig{
			APIKey:          getEnv("BACKBOARD_API_KEY", ""),
			BaseURL:         getEnv("BACKBOARD_BASE_URL", "https://app.backboard.io/api"),
			ChatProvider:    getEnv("CHAT_LLM_PROVIDER", "anthropic"),
			ChatModel:       getEnv("CHAT_MODEL_NAME", "claude-sonnet-4-5-20250929"),
			VoiceProvider:   getEnv("VOICE_LLM_PROVIDER", "xai"),
			VoiceModel:      getEnv("VOICE_MODEL_NAME", "grok-4-1-fast-non-reasoning"),
			SharedDocsDir:   getEnv("SHARED_DOCS_DIR", "shared_docs"),
			UploadDelay:     getEnvAsDuration("DOC_UPLOAD_DELAY", 300*time.Millisecond),
			PollInterval:    getEnvAsDuration("DOC_POLL_INTERVAL", 5*time.Second),
			PollMaxAttempts: getEnvAsInt("DOC_POLL_MAX_ATTEMPTS", 18),
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", ""),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},
		Platform: PlatformConfig{
			ActivityURL:  getEnv("PLATFORM_ACTIVITY_URL", ""),
			ServiceKey:   getEnv("PLATFORM_SERVICE_KEY", ""),
			PollInterval: getEnvAsDuration("ACTIVITY_POLL_INTERVAL", 30*time.Second),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AURA Concierge"),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

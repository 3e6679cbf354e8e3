package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Automation webhook targets. Each page of the portal relays to exactly
	// one of these. An empty URL means the surface is not configured and the
	// corresponding route answers with an explicit error.
	FeedbackWebhookURL     string
	ProductChatWebhookURL  string
	ProductRecsWebhookURL  string
	QualifyLeadsWebhookURL string

	// WebhookTimeout bounds a single upstream call. Zero means no client
	// timeout: the automation flows can legitimately run for minutes.
	WebhookTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// MaxUploadBytes caps a single document-extraction request body.
	MaxUploadBytes int64

	// TranscriptMaxMessages caps the stored chat history per session.
	TranscriptMaxMessages int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),

		FeedbackWebhookURL:     getEnv("USER_FEEDBACK_WEBHOOK_URL", ""),
		ProductChatWebhookURL:  getEnv("PRODUCT_CHAT_WEBHOOK_URL", ""),
		ProductRecsWebhookURL:  getEnv("PRODUCT_RECS_WEBHOOK_URL", ""),
		QualifyLeadsWebhookURL: getEnv("QUALIFY_LEADS_WEBHOOK_URL", ""),

		WebhookTimeout: getEnvAsDuration("WEBHOOK_TIMEOUT", 0),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		MaxUploadBytes:        int64(getEnvAsInt("MAX_UPLOAD_BYTES", 32<<20)),
		TranscriptMaxMessages: getEnvAsInt("TRANSCRIPT_MAX_MESSAGES", 250),
	}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

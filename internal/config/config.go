package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// N8NWebhookURL is the automation webhook that receives the assembled contract payload.
	// An empty value is a configuration failure surfaced on every submit attempt.
	N8NWebhookURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SubmitLockTTL time.Duration

	// SubmitRatePerMinute limits submissions per client IP; zero disables the limit.
	SubmitRatePerMinute float64
	SubmitRateBurst     int

	// OnboardingToken, when set, must accompany every form API request.
	OnboardingToken string

	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	Currency           string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		N8NWebhookURL:       strings.TrimSpace(getEnv("N8N_WEBHOOK_URL", "")),
		RedisAddr:           strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		SubmitLockTTL:       getEnvAsDuration("SUBMIT_LOCK_TTL", 2*time.Minute),
		SubmitRatePerMinute: getEnvAsFloat("SUBMIT_RATE_PER_MINUTE", 6),
		SubmitRateBurst:     getEnvAsInt("SUBMIT_RATE_BURST", 3),
		OnboardingToken:     strings.TrimSpace(getEnv("ONBOARDING_TOKEN", "")),
		CORSAllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS"),
		MaxBodyBytes:        int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		Currency:            getEnv("CURRENCY", "CHF"),
	}
}

// WebhookConfigured reports whether submissions can be forwarded at all.
func (c *Config) WebhookConfigured() bool {
	return c != nil && c.N8NWebhookURL != ""
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

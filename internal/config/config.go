package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// AI provider
	OpenAIAPIKey   string
	OpenAIAPIURL   string
	OpenAIModel    string
	AIMockMode     bool
	AITimeout      time.Duration
	AIMaxRetries   int
	AIRetryBackoff time.Duration
	AITemperature  float64
	AIMaxTokens    int

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "serenwell_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL:   getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AITimeout:      parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),
		AIMaxRetries:   parseInt(getEnv("AI_MAX_RETRIES", "3"), 3),
		AIRetryBackoff: parseDuration(getEnv("AI_RETRY_BACKOFF", "1s"), time.Second),
		AITemperature:  parseFloat(getEnv("AI_TEMPERATURE", "0.7"), 0.7),
		AIMaxTokens:    parseInt(getEnv("AI_MAX_TOKENS", "1000"), 1000),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	// Mock mode is the default whenever no API key is configured.
	cfg.AIMockMode = parseBool(getEnv("AI_MOCK_MODE", ""), cfg.OpenAIAPIKey == "")

	return cfg
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port          string
	BaseURL       string
	AllowedOrigin string
	SwaggerHost   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ArchiveConfig selects the key-value backend for finished sessions.
type ArchiveConfig struct {
	Driver     string // redis | sqlite
	SQLitePath string
}

type AIConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	WeeklyTemp       float64
	MaxTokens        int
	Timeout          time.Duration
	RateLimitPerHour int
}

// AnalyticsConfig holds the tunable thresholds of the session pipeline and the insight dispatcher.
type AnalyticsConfig struct {
	ArchiveLimit            int
	TopDomainsLimit         int
	HistoryWindow           int
	MinHistoryForContext    int
	ShortSessionMinutes     int
	SimpleSessionVisits     int
	ComplexFocusSwitches    int
	SignificantChangePoints float64
	MilestoneInterval       int
	TickInterval            time.Duration
	ElapsedTTL              time.Duration
}

type Config struct {
	Server    ServerConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	Archive   ArchiveConfig
	AI        AIConfig
	Analytics AnalyticsConfig
	Timezone  string
	JWTSecret string
	Env       string
}

func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		ArchiveLimit:            50,
		TopDomainsLimit:         10,
		HistoryWindow:           5,
		MinHistoryForContext:    3,
		ShortSessionMinutes:     10,
		SimpleSessionVisits:     5,
		ComplexFocusSwitches:    5,
		SignificantChangePoints: 20,
		MilestoneInterval:       10,
		TickInterval:            time.Second,
		ElapsedTTL:              10 * time.Second,
	}
}

func LoadConfig() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	defaults := DefaultAnalyticsConfig()

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
			SwaggerHost:   getEnv("SWAGGER_HOST", ""),
		},
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "focus"),
			Password: getEnv("DB_PASS", "focus"),
			DBName:   getEnv("DB_NAME", "focus_sessions"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Archive: ArchiveConfig{
			Driver:     getEnv("ARCHIVE_STORE", "redis"),
			SQLitePath: getEnv("ARCHIVE_SQLITE_PATH", "focus_archive.db"),
		},
		AI: AIConfig{
			APIKey:           getEnv("AI_API_KEY", ""),
			BaseURL:          getEnv("AI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			Model:            getEnv("AI_MODEL", "gpt-4o-mini"),
			Temperature:      getEnvFloat("AI_TEMPERATURE", 0.7),
			WeeklyTemp:       getEnvFloat("AI_WEEKLY_TEMPERATURE", 0.8),
			MaxTokens:        getEnvInt("AI_MAX_TOKENS", 500),
			Timeout:          time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
			RateLimitPerHour: getEnvInt("AI_RATE_LIMIT_PER_HOUR", 20),
		},
		Analytics: AnalyticsConfig{
			ArchiveLimit:            getEnvInt("ARCHIVE_LIMIT", defaults.ArchiveLimit),
			TopDomainsLimit:         getEnvInt("TOP_DOMAINS_LIMIT", defaults.TopDomainsLimit),
			HistoryWindow:           getEnvInt("HISTORY_WINDOW", defaults.HistoryWindow),
			MinHistoryForContext:    getEnvInt("MIN_HISTORY_FOR_CONTEXT", defaults.MinHistoryForContext),
			ShortSessionMinutes:     getEnvInt("SHORT_SESSION_MINUTES", defaults.ShortSessionMinutes),
			SimpleSessionVisits:     getEnvInt("SIMPLE_SESSION_VISITS", defaults.SimpleSessionVisits),
			ComplexFocusSwitches:    getEnvInt("COMPLEX_FOCUS_SWITCHES", defaults.ComplexFocusSwitches),
			SignificantChangePoints: getEnvFloat("SIGNIFICANT_CHANGE_POINTS", defaults.SignificantChangePoints),
			MilestoneInterval:       getEnvInt("MILESTONE_INTERVAL", defaults.MilestoneInterval),
			TickInterval:            defaults.TickInterval,
			ElapsedTTL:              defaults.ElapsedTTL,
		},
		Timezone:  getEnv("TIMEZONE", "Asia/Almaty"),
		JWTSecret: getEnv("JWT_SECRET", "SECRET"),
		Env:       getEnv("ENV", "prod"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string
	DatabaseURL string // SQLite path for the audit log

	// Caller-facing JWT configuration
	JWTSecret string

	// Upstream ERP configuration
	ERPBaseURL      string
	ERPTokenURL     string
	ERPClientID     string
	ERPClientSecret string
	ERPScope        string

	// Cache TTLs per operation
	CacheBedsTTL    time.Duration
	CacheClaimsTTL  time.Duration
	CacheSlotsTTL   time.Duration
	CacheRecordsTTL time.Duration

	// Audit retention
	AuditRetentionDays int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: getEnv("DATABASE_URL", "caregate.db"),

		JWTSecret: getEnv("APP_JWT_SECRET", ""),

		ERPBaseURL:      getEnv("ERP_BASE_URL", "https://erp.example-hospital.com"),
		ERPTokenURL:     getEnv("ERP_TOKEN_URL", "https://erp.example-hospital.com/oauth2/token"),
		ERPClientID:     getEnv("ERP_CLIENT_ID", ""),
		ERPClientSecret: getEnv("ERP_CLIENT_SECRET", ""),
		ERPScope:        getEnv("ERP_SCOPE", "beds:read claims:read appointments:read records:read"),

		CacheBedsTTL:    getDurationEnv("CACHE_BEDS_TTL", 15*time.Second),
		CacheClaimsTTL:  getDurationEnv("CACHE_CLAIMS_TTL", 60*time.Second),
		CacheSlotsTTL:   getDurationEnv("CACHE_SLOTS_TTL", 30*time.Second),
		CacheRecordsTTL: getDurationEnv("CACHE_RECORDS_TTL", 2*time.Minute),

		AuditRetentionDays: getIntEnv("AUDIT_RETENTION_DAYS", 90),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv reads a duration. Bare integers are taken as seconds for
// compatibility with the legacy TTL settings.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

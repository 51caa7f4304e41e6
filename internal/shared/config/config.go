package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	CacheDriver     string
	CachePath       string
	LLMModel        string
	LLMTimeout      time.Duration
	Env             string

	// Extraction policy knobs. Defaults mirror the original processor and
	// carry no extra meaning beyond "tunable cut points".
	ConfidenceThreshold float64
	ReviewThreshold     float64
	RuleConfidence      float64
	ContentWindow       int

	// Token-bucket limit for the analyze endpoint, keyed by client IP.
	// Rate is sustained requests per second; zero disables limiting.
	AnalyzeRateLimit float64
	AnalyzeRateBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                getEnv("PORT", "8080"),
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:     normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:       getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:           getEnv("AWS_REGION", ""),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Prefix:            getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:         getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:         dbURL,
		CacheDriver:         normalizeCacheDriver(getEnv("CACHE_DRIVER", defaultCacheDriver(dbURL))),
		CachePath:           getEnv("CACHE_SQLITE_PATH", "./document_cache.db"),
		LLMModel:            getEnv("LLM_MODEL", "gpt-4.1-mini"),
		LLMTimeout:          getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		Env:                 env,
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.7),
		ReviewThreshold:     getEnvFloat("REVIEW_THRESHOLD", 0.5),
		RuleConfidence:      getEnvFloat("RULE_CONFIDENCE", 0.6),
		ContentWindow:       getEnvInt("LLM_CONTENT_WINDOW", 12000),
		AnalyzeRateLimit:    getEnvNonNegativeFloat("ANALYZE_RATE_LIMIT", 1),
		AnalyzeRateBurst:    getEnvInt("ANALYZE_RATE_BURST", 5),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 || val > 1 {
		log.Printf("invalid %s=%q, using default %v", key, raw, def)
		return def
	}
	return val
}

func getEnvNonNegativeFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		log.Printf("invalid %s=%q, using default %v", key, raw, def)
		return def
	}
	return val
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("invalid %s=%q, using default %v", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("invalid %s=%q, using default %v", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeCacheDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "sqlite":
		return "sqlite"
	case "memory", "mem":
		return "memory"
	default:
		return "sqlite"
	}
}

func defaultCacheDriver(dbURL string) string {
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "sqlite"
}

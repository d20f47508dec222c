package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	// DatabaseURL is optional; without it jobs live in the in-memory store.
	DatabaseURL string

	GeneratorProvider string
	GeneratorTimeout  time.Duration
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string

	// Opening-edit pipeline tuning. Thresholds were calibrated empirically
	// against the target generator and may need adjustment for another one.
	MaxRetries           int
	PaddingPx            int
	MarkerMaxFrac        float64
	ContaminationMaxFrac float64
	OversizedMaxRatio    float64
	ChangeDelta          int

	// DebugArtifactDir, when set, receives annotated inputs, rejected
	// candidates and final composites for offline inspection.
	DebugArtifactDir string

	CORSAllowedOrigins []string
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		GeneratorProvider: getEnv("GENERATOR_PROVIDER", "gemini"),
		GeneratorTimeout:  time.Second * time.Duration(getEnvInt("GENERATOR_TIMEOUT_SECONDS", 120)),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		MaxRetries:           getEnvInt("EDIT_MAX_RETRIES", 3),
		PaddingPx:            getEnvInt("EDIT_PADDING_PX", 20),
		MarkerMaxFrac:        getEnvFloat("EDIT_MARKER_MAX_FRAC", 0.005),
		ContaminationMaxFrac: getEnvFloat("EDIT_CONTAMINATION_MAX_FRAC", 0.005),
		OversizedMaxRatio:    getEnvFloat("EDIT_OVERSIZED_MAX_RATIO", 2.0),
		ChangeDelta:          getEnvInt("EDIT_CHANGE_DELTA", 50),

		DebugArtifactDir: os.Getenv("EDIT_DEBUG_DIR"),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		SubmitRateLimit:    getEnvInt("SUBMIT_RATE_LIMIT", 30),
		SubmitRateWindow:   time.Second * time.Duration(getEnvInt("SUBMIT_RATE_WINDOW_SECONDS", 60)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GeneratorProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when GENERATOR_PROVIDER=gemini")
	}

	return cfg, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

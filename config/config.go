package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port         string
	AppURL       string
	DBDriver     string
	DatabaseURL  string
	UploadDir    string
	JWTSecret    string
	InferenceURL string
	LogLevel     string
	MaxUploadMB  int
}

// Load reads .env (if present) and builds the configuration from
// environment variables with sensible defaults.
func Load() *Config {
	// Missing .env is fine in production, env vars take over.
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "3000"),
		AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:  getEnv("DATABASE_URL", "snapdetect.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
		InferenceURL: getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MaxUploadMB:  getEnvInt("MAX_UPLOAD_MB", 16),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

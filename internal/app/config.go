package app

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Apollo-Blaze/CallSensei/internal/ai"
)

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool

	// StoragePath is the directory where workspace snapshots and exports
	// are stored
	StoragePath string

	// GeminiAPIKey enables the AI assistant when non-empty. Preferences
	// override this value.
	GeminiAPIKey string

	// GeminiModel is the model used for explanations
	GeminiModel string

	// GitHubToken authenticates workspace sync pushes
	GitHubToken string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:       false,
		StoragePath: "", // Will use DefaultStoragePath() from storage package
		GeminiModel: ai.DefaultModel,
	}
}

// ConfigFromEnv creates a configuration from environment variables. A .env
// file in the working directory is loaded first, so local setups can keep
// API keys out of the shell profile.
func ConfigFromEnv() *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if debugStr := os.Getenv("CALLSENSEI_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			cfg.Debug = debug
		}
	}

	if storagePath := os.Getenv("CALLSENSEI_STORAGE_PATH"); storagePath != "" {
		cfg.StoragePath = storagePath
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}

	if modelName := os.Getenv("GEMINI_MODEL"); modelName != "" {
		cfg.GeminiModel = modelName
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHubToken = token
	}

	return cfg
}

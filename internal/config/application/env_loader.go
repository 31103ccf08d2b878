package application

import (
	"os"

	"github.com/joho/godotenv"

	"lighthouse-v0/internal/infrastructure/logger"
)

// LoadEnvFile loads environment variables from a .env file. An empty path
// falls back to .env in the current directory. A missing file is not an
// error; it reports whether a file was loaded.
func LoadEnvFile(logger *logger.Logger, envFile string) bool {
	if envFile == "" {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		logger.Debug("No .env file found", "path", envFile)
		return false
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn("Failed to load .env file", "path", envFile, "err", err)
		return false
	}

	logger.Debug("Loaded .env file", "path", envFile)
	return true
}

package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a .env file into the environment if one exists. A missing
// file is fine: plain environment variables work too.
func LoadEnv() {
	_ = godotenv.Load()
}

// DatabaseURL returns the connection string from the environment.
func DatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL not set (in .env or environment)")
	}
	return url, nil
}

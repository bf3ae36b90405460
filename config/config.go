package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	ENV        string
	DB_URL     string
	JWT_SECRET string

	UPSTREAM_API_URL   string
	UPSTREAM_API_TOKEN string

	CORS_ORIGIN string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	ENV = getEnv("ENV", "development")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	UPSTREAM_API_URL = mustEnv("UPSTREAM_API_URL")
	UPSTREAM_API_TOKEN = mustEnv("UPSTREAM_API_TOKEN")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "*")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

package config

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds all application configuration, read from environment variables.
type Config struct {
	DatabaseURL   string
	Port          string
	UploadDir     string
	CORSOrigin    string
	PdftotextBin  string
	TesseractBin  string
	TesseractLang string
}

// Load reads configuration from the environment with sensible defaults.
func Load() *Config {
	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		PdftotextBin:  getEnv("PDFTOTEXT_BIN", "pdftotext"),
		TesseractBin:  getEnv("TESSERACT_BIN", "tesseract"),
		TesseractLang: getEnv("TESSERACT_LANG", "eng"),
	}
}

// InitDB opens the Postgres connection used by the server.
func InitDB(cfg *Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	return db
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Storage StorageConfig
	OCR     OCRConfig
	LLM     LLMConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	ScratchPath string
	MaxFileSize int64
}

type OCRConfig struct {
	PdftoppmBin  string
	TesseractBin string
	Language     string
	DPI          int
	Concurrency  int
	TaskTimeout  time.Duration
}

type LLMConfig struct {
	PassTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Storage: StorageConfig{
			ScratchPath: getEnv("SCRATCH_PATH", "./tmp"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		OCR: OCRConfig{
			PdftoppmBin:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractBin: getEnv("TESSERACT_BIN", "tesseract"),
			Language:     getEnv("OCR_LANGUAGE", "eng"),
			DPI:          getEnvAsInt("OCR_DPI", 300),
			Concurrency:  getEnvAsInt("OCR_CONCURRENCY", 4),
			TaskTimeout:  getEnvAsDuration("OCR_TASK_TIMEOUT", "60s"),
		},
		LLM: LLMConfig{
			PassTimeout: getEnvAsDuration("LLM_PASS_TIMEOUT", "90s"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

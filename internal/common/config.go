package common

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Vault    VaultConfig
	Extract  ExtractConfig
	Dispatch DispatchConfig
	Pipeline PipelineConfig
}

// ServerConfig holds the front-door HTTP configuration
type ServerConfig struct {
	HTTPAddr string
}

// StoreConfig selects and configures the job store backend
type StoreConfig struct {
	Backend string // "memory" | "postgres" | "sqlite"
	DSN     string // postgres URL or sqlite file path
}

// VaultConfig holds artifact-at-rest settings
type VaultConfig struct {
	AESKeyBase64 string
	UploadDir    string
}

// ExtractConfig holds external tool overrides for evidence extraction
type ExtractConfig struct {
	Pdftotext string
	Pdftoppm  string
	Tesseract string
	Zbarimg   string
	DPI       int
	OCRPages  int
}

// DispatchConfig holds downstream delivery settings
type DispatchConfig struct {
	Endpoint    string
	PostTimeout time.Duration
	PostRetries int
	Backoff     time.Duration
}

// PipelineConfig holds worker settings
type PipelineConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		},
		Store: StoreConfig{
			Backend: getEnv("JOB_STORE", "memory"),
			DSN:     getEnv("JOB_STORE_DSN", ""),
		},
		Vault: VaultConfig{
			AESKeyBase64: getEnv("AES_KEY_BASE64", ""),
			UploadDir:    getEnv("UPLOAD_DIR", "./encrypted_uploads"),
		},
		Extract: ExtractConfig{
			Pdftotext: getEnv("PDFTOTEXT_CMD", ""),
			Pdftoppm:  getEnv("PDFTOPPM_CMD", ""),
			Tesseract: getEnv("TESSERACT_CMD", ""),
			Zbarimg:   getEnv("ZBARIMG_CMD", ""),
			DPI:       getEnvAsInt("EXTRACT_DPI", 300),
			OCRPages:  getEnvAsInt("EXTRACT_OCR_PAGES", 2),
		},
		Dispatch: DispatchConfig{
			Endpoint:    getEnv("SERVER_ENDPOINT", "http://localhost:5000/api/certificates"),
			PostTimeout: getEnvAsDuration("POST_TIMEOUT", 10*time.Second),
			PostRetries: getEnvAsInt("POST_RETRIES", 3),
			Backoff:     getEnvAsDuration("POST_BACKOFF", 1*time.Second),
		},
		Pipeline: PipelineConfig{
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize:      getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PIPELINE_TIMEOUT", 3*time.Minute),
		},
	}
}

// DecodeAESKey validates and decodes the configured base64 key. The key must
// decode to exactly 32 bytes (AES-256) or startup fails.
func (c *Config) DecodeAESKey() ([]byte, error) {
	if c.Vault.AESKeyBase64 == "" {
		return nil, NewAppError("CONFIG_ERROR", "AES_KEY_BASE64 is required (base64 of 32 random bytes)", ErrInvalidInput)
	}
	key, err := base64.StdEncoding.DecodeString(c.Vault.AESKeyBase64)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", "AES_KEY_BASE64 is not valid base64", err)
	}
	if len(key) != 32 {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("AES_KEY_BASE64 must decode to 32 bytes, got %d", len(key)), ErrInvalidInput)
	}
	return key, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if _, err := c.DecodeAESKey(); err != nil {
		return err
	}
	if c.Dispatch.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "SERVER_ENDPOINT is required", ErrInvalidInput)
	}
	if c.Dispatch.PostRetries < 1 {
		return NewAppError("CONFIG_ERROR", "POST_RETRIES must be at least 1", ErrInvalidInput)
	}
	switch c.Store.Backend {
	case "memory":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			return NewAppError("CONFIG_ERROR", "JOB_STORE_DSN is required for "+c.Store.Backend, ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "JOB_STORE must be one of: memory | postgres | sqlite", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

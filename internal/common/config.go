package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Model    ModelConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Sheets   SheetsConfig
	Timezone string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	Workers         int
}

// ModelConfig holds the Gemini model configuration
type ModelConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
}

// DatabaseConfig holds the optional Postgres archive configuration.
// An empty DSN disables the archive.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// CacheConfig holds the SQLite response-cache configuration.
type CacheConfig struct {
	Path string
}

// SheetsConfig holds the Google Sheets appender configuration.
// An empty SpreadsheetID disables the appender. Auth is either a
// service-account credentials file or an OAuth client with a stored
// refresh token.
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
}

// LoadConfig loads configuration from the environment, reading a .env
// file first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			Workers:         getEnvAsInt("PIPELINE_WORKERS", 4),
		},
		Model: ModelConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			BaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Cache: CacheConfig{
			Path: getEnv("RESPONSE_CACHE_PATH", "./data/responses.db"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
			SheetName:       getEnv("SHEETS_SHEET_NAME", "Expenses"),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
			ClientID:        getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
			ClientSecret:    getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
			RefreshToken:    getEnv("GOOGLE_OAUTH_REFRESH_TOKEN", ""),
		},
		Timezone: getEnv("TIMEZONE", "UTC"),
	}
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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

// Validate checks the loaded configuration before startup.
func (c *Config) Validate() error {
	if c.Model.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsFile == "" && c.Sheets.RefreshToken == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_CREDENTIALS_FILE or GOOGLE_OAUTH_REFRESH_TOKEN is required when SHEETS_SPREADSHEET_ID is set", ErrInvalidInput)
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env string
	Web Web
	API API
}

// Web configures the form application.
type Web struct {
	Host   string
	Port   uint
	APIURL string
	APIKey string
}

// API configures the invoice service.
type API struct {
	Host          string
	Port          uint
	APIKey        string
	DatabaseDSN   string
	OutputDir     string
	S3Bucket      string
	S3Prefix      string
	AWSRegion     string
	InvoicePrefix string
	InvoiceStart  int64
	Header        string
	DueDays       int
	CORSOrigins   []string
}

// Load loads configuration from the environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	apiKey := getEnv("INVOICE_API_KEY", "")

	return Config{
		Env: getEnv("APP_ENV", "development"),
		Web: Web{
			Host:   getEnv("WEB_HOST", "localhost"),
			Port:   uint(getInt("WEB_PORT", 3000)),
			APIURL: getEnv("INVOICE_API_URL", "http://localhost:8000"),
			APIKey: apiKey,
		},
		API: API{
			Host:          getEnv("API_HOST", "0.0.0.0"),
			Port:          uint(getInt("API_PORT", 8000)),
			APIKey:        apiKey,
			DatabaseDSN:   getEnv("DATABASE_DSN", "file:invoices.db?_foreign_keys=on"),
			OutputDir:     getEnv("OUTPUT_DIR", "./generated_invoices/"),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Prefix:      getEnv("S3_PREFIX", "invoices/"),
			AWSRegion:     getEnv("AWS_REGION", "me-central-1"),
			InvoicePrefix: getEnv("INVOICE_PREFIX", "INV-FY2526-"),
			InvoiceStart:  int64(getInt("INVOICE_START", 1)),
			Header:        getEnv("INVOICE_HEADER", ""),
			DueDays:       getInt("DUE_DAYS", 30),
			CORSOrigins:   getList("CORS_ORIGINS", []string{"*"}),
		},
	}
}

func (c Config) Development() bool { return c.Env == "development" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer in environment", "key", key, "value", v)
			return def
		}
		return n
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the foodgram backend
type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	JWTSecret string

	FontPath          string
	ChromePath        string
	PDFTimeout        time.Duration
	DownloadRateLimit int

	PageSize int

	// CORSAllowedOrigins lists the frontend origins; empty disables CORS headers
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads a .env file in development (ignores error if file doesn't exist).
// In production, variables should be set directly.
// Returns whether the file was loaded.
func LoadDotEnv(path string) bool {
	if os.Getenv("ENV") == "production" {
		return false
	}
	// Overload so .env values win over stale shell variables
	return godotenv.Overload(path) == nil
}

// Load creates a Config from environment variables
func Load() (*Config, error) {
	dbURL, err := databaseURL()
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	pdfTimeout := 30 * time.Second
	if raw := os.Getenv("PDF_TIMEOUT"); raw != "" {
		pdfTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PDF_TIMEOUT %q: %w", raw, err)
		}
	}

	rateLimit, err := intFromEnv("DOWNLOAD_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	pageSize, err := intFromEnv("PAGE_SIZE", 6)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be greater than 0")
	}

	return &Config{
		DatabaseURL:        dbURL,
		Port:               normalizePort(os.Getenv("PORT")),
		Env:                envOrDefault("ENV", "development"),
		JWTSecret:          jwtSecret,
		FontPath:           envOrDefault("FONT_PATH", "data/arial.ttf"),
		ChromePath:         os.Getenv("CHROME_PATH"),
		PDFTimeout:         pdfTimeout,
		DownloadRateLimit:  rateLimit,
		PageSize:           pageSize,
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "console"),
	}, nil
}

// ListenAddr returns the address the HTTP server binds to.
// 0.0.0.0 is required to accept connections inside Docker.
func (c *Config) ListenAddr() string {
	return "0.0.0.0:" + c.Port
}

// databaseURL uses DATABASE_URL or builds a DSN from the individual DB_* variables
func databaseURL() (string, error) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr, nil
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		envOrDefault("DB_PORT", "5432"),
		user,
		os.Getenv("DB_PASSWORD"),
		dbname,
		envOrDefault("DB_SSLMODE", "disable"),
	), nil
}

// normalizePort strips a leading colon (some platforms export PORT as ":8080")
func normalizePort(port string) string {
	port = strings.TrimPrefix(strings.TrimSpace(port), ":")
	if port == "" {
		return "8080"
	}
	return port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

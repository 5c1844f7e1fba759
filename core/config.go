package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default settings values
const (
	DefaultModel             = "gpt-4o-mini"
	DefaultMaxWords          = 5
	DefaultMaxFileSize       = 5 * 1024 * 1024 // 5 MiB
	DefaultMinFileSize       = 50 * 1024       // 50 KiB
	DefaultPDFMaxChars       = 2500
	DefaultPDFMaxStreams     = 12
	DefaultRequestsPerMinute = 10
	DefaultMaxTokens         = 60
	DefaultTemperature       = float32(0.3)
	DefaultRequestTimeoutSec = 30
)

// Settings holds the per-operation rename options. A snapshot is taken when a
// download event arrives and stays immutable for the duration of that rename.
type Settings struct {
	// Token is the API credential for the remote completion endpoint (secret)
	Token string `yaml:"token"`

	// Model is the model identifier sent with each request
	Model string `yaml:"model"`

	// BaseURL overrides the completion endpoint (empty = library default)
	BaseURL string `yaml:"baseUrl"`

	// CleanCaptions removes articles ("a", "an", "the") from captions
	CleanCaptions bool `yaml:"cleanCaptions"`

	// AddDateSuffix appends -YYYY-MM-DD (UTC) to generated names
	AddDateSuffix bool `yaml:"addDateSuffix"`

	// SkipSmallImages leaves images below MinFileSize untouched
	SkipSmallImages bool `yaml:"skipSmallImages"`

	// MaxWords caps the number of hyphen-separated slug tokens (>=1)
	MaxWords int `yaml:"maxWords"`

	// MaxFileSize is the largest download the service will fetch (bytes)
	MaxFileSize int64 `yaml:"maxFileSize"`

	// MinFileSize is the skip threshold for small images (bytes)
	MinFileSize int64 `yaml:"minFileSize"`

	// PDFEnabled gates the PDF rename path
	PDFEnabled bool `yaml:"pdfEnabled"`

	// PDFMaxChars caps the extracted excerpt length
	PDFMaxChars int `yaml:"pdfMaxChars"`

	// PDFMaxStreams caps how many content streams are scanned per PDF
	PDFMaxStreams int `yaml:"pdfMaxStreams"`

	// NotificationsEnabled gates the per-outcome notifier call
	NotificationsEnabled bool `yaml:"notificationsEnabled"`

	// RequestTimeout bounds each fetch and each remote model call
	RequestTimeout time.Duration `yaml:"requestTimeout"`

	// RequestsPerMinute is the fixed-window remote-call budget
	RequestsPerMinute int `yaml:"requestsPerMinute"`

	// MaxTokens is the completion token cap for model responses
	MaxTokens int `yaml:"maxTokens"`

	// Temperature controls model response randomness
	Temperature float32 `yaml:"temperature"`
}

// DefaultSettings returns the documented defaults (spec'd merge base).
func DefaultSettings() Settings {
	return Settings{
		Model:                DefaultModel,
		CleanCaptions:        true,
		AddDateSuffix:        false,
		SkipSmallImages:      true,
		MaxWords:             DefaultMaxWords,
		MaxFileSize:          DefaultMaxFileSize,
		MinFileSize:          DefaultMinFileSize,
		PDFEnabled:           true,
		PDFMaxChars:          DefaultPDFMaxChars,
		PDFMaxStreams:        DefaultPDFMaxStreams,
		NotificationsEnabled: true,
		RequestTimeout:       DefaultRequestTimeoutSec * time.Second,
		RequestsPerMinute:    DefaultRequestsPerMinute,
		MaxTokens:            DefaultMaxTokens,
		Temperature:          DefaultTemperature,
	}
}

// Config holds the full service configuration: the rename Settings plus the
// process-level values (listen address, storage paths, auth).
type Config struct {
	Settings Settings

	// Host and Port for the local HTTP event endpoint
	Host string
	Port int

	// DatabasePath is the SQLite file for history/stats
	DatabasePath string

	// LogFilePath is the rotating log file
	LogFilePath string

	// APIToken, when non-empty, is required as a bearer token on API requests
	APIToken string

	// DevMode enables debug logging and human-readable console output
	DevMode bool
}

// LoadConfig builds the service configuration from environment variables
// merged over defaults, then applies the optional YAML settings file named by
// RENAMER_SETTINGS_FILE on top.
func LoadConfig() (*Config, error) {
	s := DefaultSettings()

	s.Token = GetEnvOrDefault("RENAMER_API_TOKEN", "")
	s.Model = GetEnvOrDefault("RENAMER_MODEL", s.Model)
	s.BaseURL = GetEnvOrDefault("RENAMER_BASE_URL", "")
	s.CleanCaptions = ParseBoolEnv("RENAMER_CLEAN_CAPTIONS", s.CleanCaptions)
	s.AddDateSuffix = ParseBoolEnv("RENAMER_ADD_DATE_SUFFIX", s.AddDateSuffix)
	s.SkipSmallImages = ParseBoolEnv("RENAMER_SKIP_SMALL_IMAGES", s.SkipSmallImages)
	s.MaxWords = ParseIntEnv("RENAMER_MAX_WORDS", s.MaxWords)
	s.MaxFileSize = ParseInt64Env("RENAMER_MAX_FILE_SIZE", s.MaxFileSize)
	s.MinFileSize = ParseInt64Env("RENAMER_MIN_FILE_SIZE", s.MinFileSize)
	s.PDFEnabled = ParseBoolEnv("RENAMER_PDF_ENABLED", s.PDFEnabled)
	s.PDFMaxChars = ParseIntEnv("RENAMER_PDF_MAX_CHARS", s.PDFMaxChars)
	s.PDFMaxStreams = ParseIntEnv("RENAMER_PDF_MAX_STREAMS", s.PDFMaxStreams)
	s.NotificationsEnabled = ParseBoolEnv("RENAMER_NOTIFICATIONS", s.NotificationsEnabled)
	s.RequestTimeout = ParseDurationEnv("RENAMER_REQUEST_TIMEOUT", DefaultRequestTimeoutSec)
	s.RequestsPerMinute = ParseIntEnv("RENAMER_REQUESTS_PER_MINUTE", s.RequestsPerMinute)
	s.MaxTokens = ParseIntEnv("RENAMER_MAX_TOKENS", s.MaxTokens)
	s.Temperature = ParseFloat32Env("RENAMER_TEMPERATURE", s.Temperature)

	if path := os.Getenv("RENAMER_SETTINGS_FILE"); path != "" {
		if err := applySettingsFile(&s, path); err != nil {
			return nil, err
		}
	}

	if err := validateSettings(s); err != nil {
		return nil, err
	}

	cfg := &Config{
		Settings:     s,
		Host:         GetEnvOrDefault("RENAMER_HOST", "localhost"),
		Port:         ParseIntEnv("RENAMER_PORT", 8632),
		DatabasePath: GetEnvOrDefault("RENAMER_DB_PATH", "renamer.db"),
		LogFilePath:  GetEnvOrDefault("RENAMER_LOG_FILE", "renamer.log"),
		APIToken:     GetEnvOrDefault("RENAMER_LOCAL_TOKEN", ""),
		DevMode:      ParseBoolEnv("DEV_MODE", false),
	}

	return cfg, nil
}

// applySettingsFile overlays a YAML settings file onto s.
// Only fields present in the file are touched.
func applySettingsFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return nil
}

// validateSettings rejects values the pipeline cannot operate with.
// A missing token is allowed at load time; it surfaces per-operation.
func validateSettings(s Settings) error {
	if s.MaxWords < 1 {
		return fmt.Errorf("maxWords must be >= 1, got %d", s.MaxWords)
	}
	if s.MaxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be positive, got %d", s.MaxFileSize)
	}
	if s.MinFileSize < 0 {
		return fmt.Errorf("minFileSize must not be negative, got %d", s.MinFileSize)
	}
	if s.RequestsPerMinute < 1 {
		return fmt.Errorf("requestsPerMinute must be >= 1, got %d", s.RequestsPerMinute)
	}
	return nil
}

package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", s.Model, DefaultModel)
	}
	if s.MaxWords != 5 {
		t.Errorf("MaxWords = %d, want 5", s.MaxWords)
	}
	if s.MinFileSize != 50*1024 {
		t.Errorf("MinFileSize = %d, want 50KiB", s.MinFileSize)
	}
	if s.MaxFileSize != 5*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 5MiB", s.MaxFileSize)
	}
	if s.PDFMaxChars != 2500 {
		t.Errorf("PDFMaxChars = %d, want 2500", s.PDFMaxChars)
	}
	if s.PDFMaxStreams != 12 {
		t.Errorf("PDFMaxStreams = %d, want 12", s.PDFMaxStreams)
	}
	if !s.NotificationsEnabled {
		t.Error("notifications should default to enabled")
	}
	if !s.CleanCaptions {
		t.Error("caption cleanup should default to enabled")
	}
	if s.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", s.RequestTimeout)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("RENAMER_API_TOKEN", "sk-test-token")
	t.Setenv("RENAMER_MAX_WORDS", "3")
	t.Setenv("RENAMER_PDF_ENABLED", "false")
	t.Setenv("RENAMER_PORT", "9000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Settings.Token != "sk-test-token" {
		t.Errorf("Token = %q, want env value", cfg.Settings.Token)
	}
	if cfg.Settings.MaxWords != 3 {
		t.Errorf("MaxWords = %d, want 3", cfg.Settings.MaxWords)
	}
	if cfg.Settings.PDFEnabled {
		t.Error("PDFEnabled should be false from env")
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
}

func TestLoadConfigSettingsFileOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "maxWords: 7\nmodel: gpt-4o\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RENAMER_MAX_WORDS", "2")
	t.Setenv("RENAMER_SETTINGS_FILE", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Settings.MaxWords != 7 {
		t.Errorf("MaxWords = %d, want settings-file value 7", cfg.Settings.MaxWords)
	}
	if cfg.Settings.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Settings.Model)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero max words", "RENAMER_MAX_WORDS", "0"},
		{"negative max file size", "RENAMER_MAX_FILE_SIZE", "-1"},
		{"zero requests per minute", "RENAMER_REQUESTS_PER_MINUTE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"FALSE", true, false},
		{"0", true, false},
		{"off", true, false},
		{"garbage", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := ParseBoolEnv("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
			}
		})
	}
}

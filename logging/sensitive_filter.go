package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive
// data inside string values. Compiled once at package initialization.
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI-style API keys: sk-... (legacy) or sk-proj-... (project-scoped)
	regexp.MustCompile(`(?i)(sk-[a-zA-Z0-9_-]{20,})`),
	// Bearer tokens in header dumps
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),
	// Generic secret assignments
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveFieldNames are log field keys whose values are always redacted.
var sensitiveFieldNames = []string{
	"token",
	"api_token",
	"api_key",
	"apikey",
	"password",
	"secret",
	"authorization",
}

// RedactSensitiveData scans a string value and redacts detected secrets.
// This is a pure function.
func RedactSensitiveData(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// IsSensitiveField reports whether a log field key names a secret.
// Matching is case-insensitive on both exact names and suffixes, so
// "renamer_api_token" matches "api_token".
func IsSensitiveField(key string) bool {
	lower := strings.ToLower(key)
	for _, name := range sensitiveFieldNames {
		if lower == name || strings.HasSuffix(lower, "_"+name) {
			return true
		}
	}
	return false
}

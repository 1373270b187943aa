package errors

import (
	"strings"
	"unicode"
)

// ValidateVersion validates a distribution version token.
// Versions become directory and file names in the local repository, so they
// are held to the same rules as path segments:
//   - No empty versions
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateVersion(version string) error {
	if strings.TrimSpace(version) == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}
	if len(version) > 128 {
		return New(ErrCodeInvalidVersion, "version too long (max 128 characters)")
	}
	return validateSegment(ErrCodeInvalidVersion, "version", version)
}

// ValidateArtifactID validates an artifact identifier supplied by a caller.
func ValidateArtifactID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "artifact id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "artifact id too long (max 256 characters)")
	}
	return validateSegment(ErrCodeInvalidInput, "artifact id", id)
}

func validateSegment(code Code, what, s string) error {
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", what)
		}
	}

	if s == "." {
		return New(code, "%s cannot be %q", what, s)
	}

	dangerousPatterns := []string{
		"..", // Parent directory
		"/",  // Path separator
		"\\", // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(s, pattern) {
			return New(code, "%s contains invalid characters: %q", what, pattern)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

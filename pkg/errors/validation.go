package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextLength bounds the input text accepted by [ValidateText]. The search
// is exponential in the number of words, so the limit is deliberately low.
const MaxTextLength = 4096

// ValidateDimensions checks that a box width and height are positive.
func ValidateDimensions(width, maxLines int) error {
	if width <= 0 {
		return New(ErrCodeInvalidDimensions, "width must be positive, got %d", width)
	}
	if maxLines <= 0 {
		return New(ErrCodeInvalidDimensions, "max lines must be positive, got %d", maxLines)
	}
	return nil
}

// ValidateText checks raw input text before it is split into words.
//
// The validation rules are:
//   - Must be valid UTF-8
//   - Maximum length of [MaxTextLength] bytes
//   - No control characters other than a trailing line terminator
func ValidateText(text string) error {
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "text is not valid UTF-8")
	}
	if len(text) > MaxTextLength {
		return New(ErrCodeInvalidInput, "text too long (max %d bytes)", MaxTextLength)
	}
	for _, r := range strings.TrimRight(text, "\r\n") {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "text contains control character %U", r)
		}
	}
	return nil
}

// ValidateOutputPath validates a file path that output is appended to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}

package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// Year bounds accepted from user input. The dataset itself is never
// validated against these; they only guard command arguments.
const (
	MinYear = 1900
	MaxYear = 2200
)

// maxLabelLength bounds facet labels supplied by users.
const maxLabelLength = 256

// ValidateLabel validates a facet label supplied by a user command.
// It rejects empty labels, overly long labels and labels with control characters.
//
// Whether the label is a known facet value is checked by the selection state,
// not here.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// ParseYear parses a year from user input (URL path, flag, key press).
// It returns an INVALID_YEAR error when s is not an integer in [MinYear, MaxYear].
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, New(ErrCodeInvalidYear, "invalid year: %q", s)
	}
	if err := ValidateYear(year); err != nil {
		return 0, err
	}
	return year, nil
}

// ValidateYear checks that year lies in [MinYear, MaxYear].
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidYear, "year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	return nil
}

// ValidatePath validates an output or dataset path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
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

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

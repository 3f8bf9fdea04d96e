package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// maxFilenameLength bounds user-chosen download names.
const maxFilenameLength = 128

// ValidateFilename validates a user-chosen output filename (without extension).
// It ensures the name is a simple basename that is safe to put in a
// Content-Disposition header or join with an output directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or quotes
//   - No path separators or traversal sequences
//   - No hidden files (leading dot)
//   - Maximum length of 128 characters
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidFilename, "filename contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}

	return nil
}

// ParseInt parses a required integer field. Surrounding whitespace is ignored;
// anything else that is not a base-10 integer is rejected rather than coerced.
func ParseInt(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, New(ErrCodeInvalidInput, "%s is required", field)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "%s must be an integer, got %q", field, raw)
	}
	return n, nil
}

// ParsePositiveInt parses a required integer field that must be > 0.
func ParsePositiveInt(field, raw string) (int, error) {
	n, err := ParseInt(field, raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, New(ErrCodeInvalidInput, "%s must be positive, got %d", field, n)
	}
	return n, nil
}

// ParseNonNegativeInt parses a required integer field that must be >= 0.
func ParseNonNegativeInt(field, raw string) (int, error) {
	n, err := ParseInt(field, raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, New(ErrCodeInvalidInput, "%s cannot be negative, got %d", field, n)
	}
	return n, nil
}

// ParseUint64 parses an unsigned 64-bit field such as a seed.
func ParseUint64(field, raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "%s must be an unsigned integer, got %q", field, raw)
	}
	return n, nil
}

package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds node names and structure identifiers.
const maxNameLength = 128

// ValidateName validates a node name or structure identifier.
// Names are shown on screen and used as cache and file keys, so they must be
// non-empty, printable and reasonably short.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// identifierRegex matches structure identifiers used in scripts.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateIdentifier validates a structure identifier in an animation script.
// Identifiers name output files, so they are restricted to a safe alphabet.
func ValidateIdentifier(id string) error {
	if err := ValidateName(id); err != nil {
		return err
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", id)
	}

	return nil
}

// ValidatePath validates an input or output file path.
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

// ValidateExtension checks that path ends in one of the allowed extensions.
// Extensions are compared case-insensitively and include the leading dot.
func ValidateExtension(path string, allowed ...string) error {
	lower := strings.ToLower(path)
	for _, ext := range allowed {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file extension for %q (want one of %s)", path, strings.Join(allowed, ", "))
}

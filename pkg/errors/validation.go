package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxContentLength bounds the size of a block's content in bytes.
const MaxContentLength = 64 << 10

// ValidateBlockID validates a block identifier.
//
// Ids are opaque, but they travel through URLs and storage keys, so the rules
// are conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No whitespace or control characters
//   - No path separators
func ValidateBlockID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "block id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "block id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "block id contains invalid characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidID, "block id cannot contain path separators")
	}

	return nil
}

// ValidateImageURL validates the content of an image block.
// An empty URL is accepted so a freshly added image can be filled in later;
// anything else must use the http or https scheme.
func ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	if strings.ContainsAny(rawURL, " \t\r\n") {
		return New(ErrCodeInvalidContent, "image URL cannot contain whitespace")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidContent, "image URL must use http or https scheme")
	}

	return nil
}

// ValidateText validates the markdown source of a text block.
func ValidateText(text string) error {
	if len(text) > MaxContentLength {
		return New(ErrCodeInvalidContent, "text content too long (max %d bytes)", MaxContentLength)
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidContent, "text content contains null bytes")
	}
	return nil
}

// namespaceRegex matches storage namespaces such as "gridboard" or "board:home".
var namespaceRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateNamespace validates a storage key namespace.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return New(ErrCodeInvalidConfig, "namespace cannot be empty")
	}

	if len(ns) > 64 {
		return New(ErrCodeInvalidConfig, "namespace too long (max 64 characters)")
	}

	if strings.Contains(ns, "..") {
		return New(ErrCodeInvalidConfig, "namespace cannot contain path traversal sequences (..)")
	}

	if !namespaceRegex.MatchString(ns) {
		return New(ErrCodeInvalidConfig, "invalid namespace: %q", ns)
	}

	return nil
}

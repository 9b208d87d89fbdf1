package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeName validates a node name before it enters the store.
// Names are durable identities and the only way nodes reference each other,
// so the rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No leading/trailing whitespace
//   - Maximum length of 256 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "node name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidInput, "node name cannot have leading or trailing whitespace")
	}

	return nil
}

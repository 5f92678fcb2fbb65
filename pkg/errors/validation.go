package errors

import (
	"strings"
	"unicode"
)

// MaxItemLength bounds the length of a single item identifier in bytes.
const MaxItemLength = 2048

// ValidateItem validates an item identifier.
//
// Items are whitespace-delimited tokens in ranking files, so the rules are:
//   - No empty items
//   - No whitespace or control characters
//   - Maximum length of MaxItemLength bytes
func ValidateItem(item string) error {
	if item == "" {
		return New(ErrCodeInvalidItem, "item cannot be empty")
	}

	if len(item) > MaxItemLength {
		return New(ErrCodeInvalidItem, "item too long (max %d characters)", MaxItemLength)
	}

	for _, r := range item {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item %q contains whitespace or control characters", item)
		}
	}

	return nil
}

// ValidateRanking validates one input ranking: every item must be valid and
// no item may appear twice.
func ValidateRanking(items []string) error {
	seen := make(map[string]int, len(items))
	for i, item := range items {
		if err := ValidateItem(item); err != nil {
			return Wrap(ErrCodeInvalidRanking, err, "position %d", i+1)
		}
		if prev, ok := seen[item]; ok {
			return New(ErrCodeInvalidRanking, "item %q appears at positions %d and %d", item, prev+1, i+1)
		}
		seen[item] = i
	}
	return nil
}

// ValidatePath validates a ranking file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateRedisAddr validates a host:port address for the Redis cache.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "redis address cannot be empty")
	}
	if !strings.Contains(addr, ":") {
		return New(ErrCodeInvalidConfig, "redis address must be host:port, got %q", addr)
	}
	return nil
}

// ValidateMongoURI validates a MongoDB connection string scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "mongo URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongo URI must use mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}

package password

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the shortest accepted password
	MinLength = 6

	// LegacyPrefix marks hashes imported from the browser-storage snapshot
	LegacyPrefix = "legacy$"
)

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a stored hash. Legacy hashes are checked
// with LegacyHash; callers should re-hash on success (see NeedsUpgrade).
func Verify(password, hash string) bool {
	if legacy, ok := strings.CutPrefix(hash, LegacyPrefix); ok {
		return LegacyHash(password) == legacy
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NeedsUpgrade reports whether hash is a legacy hash that must be replaced
func NeedsUpgrade(hash string) bool {
	return strings.HasPrefix(hash, LegacyPrefix)
}

// LegacyHash reproduces the 32-bit rolling string hash used by the old
// browser app (h = h*31 + c over UTF-16 code units, wrapping at int32).
// It is NOT a password hash: collisions are trivial. Only used to verify
// imported accounts once before they are upgraded to bcrypt.
func LegacyHash(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return strconv.FormatInt(int64(h), 10)
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) bool {
	return len([]rune(password)) >= MinLength
}

package view

import (
	"crypto/sha256"
	"encoding/base64"
	"unicode/utf8"
)

// MaskToken hides the middle of a secret for display.
func MaskToken(value string) string {
	if utf8.RuneCountInString(value) <= 12 {
		return value
	}
	r := []rune(value)
	return string(r[:8]) + "..." + string(r[len(r)-4:])
}

// Fingerprint returns a short, stable identifier of a secret, so two tokens can be
// compared without showing either value.
func Fingerprint(value string) string {
	hash := sha256.Sum256([]byte(value))
	return base64.RawURLEncoding.EncodeToString(hash[:9])
}

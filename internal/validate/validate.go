// Package validate holds the credential validation rules shared by the
// client session facade and the server identity service, so the policy
// lives in exactly one place.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"server/internal/domain"
)

// MinPasswordLen is the minimum accepted password length in characters.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and validates the basic
// local@domain shape. The returned form is what gets stored and looked
// up, so padded input cannot produce an address lookups will miss.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// Email checks the basic local@domain shape.
func Email(email string) error {
	_, err := NormalizeEmail(email)
	return err
}

// Password checks the password against the minimum length policy.
// Length is counted in runes, not bytes.
func Password(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return domain.ErrWeakPassword
	}
	return nil
}

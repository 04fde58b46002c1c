package utils

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

const MinPasswordLength = 6

var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrInvalidCredentialID = errors.New("invalid credential id format")
)

// CREF is the Brazilian personal-trainer registration number: the literal
// prefix, 4 to 6 digits, and an optional category/state suffix such as -G/SP.
var credentialIDPattern = regexp.MustCompile(`^CREF ?\d{4,6}(-[A-Z]/[A-Z]{2})?$`)

func ValidateEmail(s string) error {
	parsed, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return ErrInvalidEmail
	}
	// mail.ParseAddress accepts local addresses like "a@b"; require a dot in
	// the domain so "not-an-email" style values cannot sneak through.
	at := strings.LastIndex(parsed.Address, "@")
	if at < 1 || !strings.Contains(parsed.Address[at+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(s string) error {
	if len(s) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func ValidateCredentialID(s string) error {
	if !credentialIDPattern.MatchString(strings.ToUpper(strings.TrimSpace(s))) {
		return ErrInvalidCredentialID
	}
	return nil
}

// NormalizeCredentialID uppercases and strips spacing so "cref 012345-g/sp"
// and "CREF012345-G/SP" store identically, which the uniqueness constraint
// depends on.
func NormalizeCredentialID(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "")
}

// SplitListInput turns a comma-delimited field into a trimmed list, dropping
// empty tokens and keeping the order the user typed.
func SplitListInput(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

package customer

import (
	"regexp"
	"strings"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 20
)

var (
	passwordCharset = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^*]+$`)
	passwordLetter  = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[!@#$%^*]`)
)

// ValidatePassword checks a raw password: 8 to 20 characters drawn from
// letters, digits and !@#$%^*, with at least one of each class.
func ValidatePassword(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrBlankPassword
	}
	if len(raw) < PasswordMinLength || len(raw) > PasswordMaxLength {
		return ErrInvalidPassword
	}
	if !passwordCharset.MatchString(raw) ||
		!passwordLetter.MatchString(raw) ||
		!passwordDigit.MatchString(raw) ||
		!passwordSpecial.MatchString(raw) {
		return ErrInvalidPassword
	}
	return nil
}

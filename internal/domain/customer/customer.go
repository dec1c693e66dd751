package customer

import (
	"regexp"
	"strings"
)

type Customer struct {
	ID           int64
	Username     string
	PasswordHash string
	Nickname     string
	Age          int
}

var usernameRegexp = regexp.MustCompile(`^[a-z0-9_-]{4,20}$`)

// NormalizeUsername folds a username to its stored form. Lookups compare
// usernames case-insensitively by normalizing on both sides.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidateUsername(username string) error {
	if !usernameRegexp.MatchString(NormalizeUsername(username)) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidateProfile(nickname string, age int) error {
	if strings.TrimSpace(nickname) == "" || age < 0 {
		return ErrInvalidProfile
	}
	return nil
}

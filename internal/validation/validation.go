// Package validation provides input validation utilities for account fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 150
	minPasswordLen = 6
	maxPasswordLen = 128
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUsername checks the account-name policy: at least 3 characters,
// at most 150, no surrounding whitespace.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("username must not start or end with whitespace")
	}
	if len(username) < minUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", minUsernameLen)
	}
	if len(username) > maxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", maxUsernameLen)
	}
	return nil
}

// ValidatePassword checks the password policy: at least 6 characters, at
// most 128.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLen)
	}
	return nil
}

// ValidateEmail checks basic email shape. An empty email is allowed; the
// field is optional at registration.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

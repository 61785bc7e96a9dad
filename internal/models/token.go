package models

import (
	"fmt"
	"regexp"
)

var tokenPattern = regexp.MustCompile(`^sk-[a-zA-Z0-9]{48}$`)

// ValidateToken checks the token format without contacting any server.
func ValidateToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !tokenPattern.MatchString(token) {
		return fmt.Errorf("%w: expected sk- followed by 48 alphanumerics", ErrInvalidTokenFormat)
	}
	return nil
}

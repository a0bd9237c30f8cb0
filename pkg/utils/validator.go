package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitRegex = regexp.MustCompile(`\D`)
)

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateTelefone checks a Brazilian phone number for 10 or 11 digits
// (landline or mobile, with area code).
func ValidateTelefone(telefone string) error {
	n := len(digitRegex.ReplaceAllString(telefone, ""))
	if n < 10 || n > 11 {
		return fmt.Errorf("phone must have 10 or 11 digits, got %d", n)
	}
	return nil
}

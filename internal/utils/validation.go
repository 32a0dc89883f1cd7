package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Missing reports whether the error is about an absent value rather than a bad one
func (e ValidationError) Missing() bool {
	return strings.HasSuffix(e.Message, " is required")
}

// ValidateRequired checks that a field is present and not blank
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateOptionalEmail accepts an empty address but rejects a malformed one
func ValidateOptionalEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return ValidateEmail(email)
}

// ValidateName checks if a person's name is valid
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if len(name) > 200 {
		return ValidationError{Field: field, Message: field + " must be at most 200 characters"}
	}
	return nil
}

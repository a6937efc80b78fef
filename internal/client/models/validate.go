package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field names reported by ValidationError.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// MinUsernameLen is the minimum username length in characters.
const MinUsernameLen = 2

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports a client-side input problem on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateNew checks input for a create call. Fields are checked in order
// username, email; the first failure is returned.
func ValidateNew(in UserInput) error {
	if in.Username == "" {
		return &ValidationError{Field: FieldUsername, Reason: "must not be empty"}
	}
	if in.Email == "" {
		return &ValidationError{Field: FieldEmail, Reason: "must not be empty"}
	}
	if !emailRe.MatchString(in.Email) {
		return &ValidationError{Field: FieldEmail, Reason: "must look like name@domain.tld"}
	}
	if utf8.RuneCountInString(in.Username) < MinUsernameLen {
		return &ValidationError{Field: FieldUsername, Reason: fmt.Sprintf("must be at least %d characters", MinUsernameLen)}
	}
	return nil
}

// NormalizeUpdate trims both fields and requires them to be non-empty.
func NormalizeUpdate(in UserInput) (UserInput, error) {
	out := UserInput{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
	}
	if out.Username == "" {
		return UserInput{}, &ValidationError{Field: FieldUsername, Reason: "must not be empty"}
	}
	if out.Email == "" {
		return UserInput{}, &ValidationError{Field: FieldEmail, Reason: "must not be empty"}
	}
	return out, nil
}

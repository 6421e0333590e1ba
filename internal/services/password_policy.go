package services

import (
	"fmt"
	"unicode"

	"github.com/mtakagi/task-tracker-api/internal/constants"
)

// PasswordPolicy decides whether a plaintext password is acceptable. The
// policy is pluggable: registration takes whatever implementation it is
// constructed with.
type PasswordPolicy interface {
	// Validate returns one message per violated rule, empty when acceptable
	Validate(password string) []string
}

// DefaultPasswordPolicy enforces a minimum length plus minimal complexity
type DefaultPasswordPolicy struct {
	MinLength int
}

// NewDefaultPasswordPolicy creates a policy with the given minimum length;
// non-positive values fall back to the configured default.
func NewDefaultPasswordPolicy(minLength int) *DefaultPasswordPolicy {
	if minLength <= 0 {
		minLength = constants.DefaultMinPasswordLength
	}
	return &DefaultPasswordPolicy{MinLength: minLength}
}

func (p *DefaultPasswordPolicy) Validate(password string) []string {
	var messages []string

	if len(password) < p.MinLength {
		messages = append(messages, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		messages = append(messages, "This password must contain at least one letter.")
	}
	if !hasDigit {
		messages = append(messages, "This password must contain at least one digit.")
	}

	return messages
}

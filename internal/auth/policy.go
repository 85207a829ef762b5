// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Credential policy defaults.
const (
	DefaultUsernameMinLen = 4
	DefaultUsernameMaxLen = 20
	DefaultPasswordMinLen = 6
	DefaultPasswordMaxLen = 50
)

// usernameRegex matches usernames containing only letters, numbers, and
// underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// allDigitsRegex matches usernames made up entirely of digits.
var allDigitsRegex = regexp.MustCompile(`^[0-9]+$`)

// commonPasswords are rejected outright by strength scoring, including as
// substrings.
var commonPasswords = []string{
	"password", "admin", "welcome", "login", "letmein",
	"iloveyou", "monkey", "dragon", "sunshine", "princess",
	"freedom", "whatever", "trustno1", "hello", "pass",
	"qwerty", "abc123", "123456", "12345678", "12345",
}

// Policy performs stateless rule checks on candidate credentials. The zero
// value is not usable; construct with NewPolicy.
type Policy struct {
	usernameMinLen int
	usernameMaxLen int
	passwordMinLen int
	passwordMaxLen int
}

// PolicyOption customizes a Policy.
type PolicyOption func(*Policy)

// WithUsernameLength overrides the username length bounds.
func WithUsernameLength(minLen, maxLen int) PolicyOption {
	return func(p *Policy) {
		p.usernameMinLen = minLen
		p.usernameMaxLen = maxLen
	}
}

// WithPasswordLength overrides the password length bounds.
func WithPasswordLength(minLen, maxLen int) PolicyOption {
	return func(p *Policy) {
		p.passwordMinLen = minLen
		p.passwordMaxLen = maxLen
	}
}

// NewPolicy creates a Policy with default limits, applying any options.
func NewPolicy(opts ...PolicyOption) *Policy {
	p := &Policy{
		usernameMinLen: DefaultUsernameMinLen,
		usernameMaxLen: DefaultUsernameMaxLen,
		passwordMinLen: DefaultPasswordMinLen,
		passwordMaxLen: DefaultPasswordMaxLen,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ValidateUsername validates a candidate username.
// Username requirements:
//   - Length within the configured bounds (default 4 to 20)
//   - Only letters (a-z, A-Z), numbers (0-9), and underscores (_)
//   - Must not start or end with an underscore
//   - Must not be entirely numeric
func (p *Policy) ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if strings.ContainsFunc(username, unicode.IsSpace) {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot contain spaces")
	}
	// Bounds count characters, not bytes.
	if utf8.RuneCountInString(username) < p.usernameMinLen {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", p.usernameMinLen).
			Errorf("username must be at least %d characters", p.usernameMinLen)
	}
	if utf8.RuneCountInString(username) > p.usernameMaxLen {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", p.usernameMaxLen).
			Errorf("username must be at most %d characters", p.usernameMaxLen)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username can only contain letters, numbers, and underscores")
	}
	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username cannot start or end with an underscore")
	}
	if allDigitsRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be entirely numeric")
	}
	return nil
}

// ValidatePassword validates a candidate password against the hard policy
// gate. The username is needed because passwords must not embed it.
// Password requirements:
//   - Length within the configured bounds (default 6 to 50)
//   - At least one lowercase letter, one uppercase letter, and one digit
//   - No whitespace
//   - Must not contain the username (case-insensitive)
func (p *Policy) ValidatePassword(password, username string) error {
	if password == "" {
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password cannot be empty")
	}
	// Bounds count characters, not bytes, so multi-byte runes are not
	// penalized.
	if utf8.RuneCountInString(password) < p.passwordMinLen {
		return oops.Code("AUTH_INVALID_PASSWORD").
			With("min", p.passwordMinLen).
			Errorf("password must be at least %d characters", p.passwordMinLen)
	}
	if utf8.RuneCountInString(password) > p.passwordMaxLen {
		return oops.Code("AUTH_INVALID_PASSWORD").
			With("max", p.passwordMaxLen).
			Errorf("password must be at most %d characters", p.passwordMaxLen)
	}
	if strings.ContainsFunc(password, unicode.IsSpace) {
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password cannot contain spaces")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return oops.Code("AUTH_INVALID_PASSWORD").
			Errorf("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password cannot contain the username")
	}
	return nil
}

// StrengthLevel classifies an advisory strength score.
type StrengthLevel string

// Strength classifications. Callers may reject Weak, prompt on Moderate,
// and accept Strong.
const (
	StrengthWeak     StrengthLevel = "weak"
	StrengthModerate StrengthLevel = "moderate"
	StrengthStrong   StrengthLevel = "strong"
)

// StrengthReport is the advisory result of CheckStrength. It is separate
// from ValidatePassword, which is a hard gate.
type StrengthReport struct {
	// Score counts the character classes present: uppercase, lowercase,
	// digit, special. Range 0-4.
	Score int

	// Level derived from Score: below 3 is weak, exactly 3 moderate, 4 strong.
	Level StrengthLevel

	// Common is set when the password is, or contains, a commonly used
	// password. Common passwords always score weak.
	Common bool
}

// CheckStrength scores a password by the character classes it contains.
func (p *Policy) CheckStrength(password string) StrengthReport {
	lowered := strings.ToLower(password)
	for _, common := range commonPasswords {
		if strings.Contains(lowered, common) {
			return StrengthReport{Score: 0, Level: StrengthWeak, Common: true}
		}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	score := 0
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if present {
			score++
		}
	}

	level := StrengthWeak
	switch {
	case score == 4:
		level = StrengthStrong
	case score == 3:
		level = StrengthModerate
	}

	return StrengthReport{Score: score, Level: level}
}

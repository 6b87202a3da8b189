package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// Price limits, minor units
	MinCoursePrice = 0
	MaxCoursePrice = 100000000

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validator collects field-level validation errors
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator
func (v *Validator) AddError(field, message string) {
	v.Errors[field] = message
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Email validates email format
func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

// Required checks if a string is not empty
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MinLength checks if a string has at least n characters
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Price checks a course price in minor units
func (v *Validator) Price(field string, price int64) {
	v.Check(price >= MinCoursePrice && price <= MaxCoursePrice, field,
		fmt.Sprintf("must be between %d and %d cents", MinCoursePrice, MaxCoursePrice))
}

// Password validates password strength
func (v *Validator) Password(field, password string) {
	v.MinLength(field, password, MinPasswordLength)
	v.MaxLength(field, password, MaxPasswordLength)

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	v.Check(hasUpper, field, "must contain an uppercase letter")
	v.Check(hasLower, field, "must contain a lowercase letter")
	v.Check(hasNumber, field, "must contain a number")
}

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	specialChars := regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	return specialChars.MatchString(s)
}

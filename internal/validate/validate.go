// Package validate holds the shared field predicates and form validators.
// Every consumer uses the same rule set and message vocabulary; error keys
// match form field names so callers can render messages inline.
package validate

import (
	"regexp"
	"strconv"
	"strings"
)

// Error carries a field-keyed set of validation messages. It is returned by
// form validators and by record services rejecting a draft; it is never
// fatal to the caller.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// Result is the outcome of an aggregate form validation.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// Err converts a failed Result into an *Error, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Fields: r.Errors}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsRequired reports whether the value is non-empty after trimming whitespace.
func IsRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsValidEmail reports whether the value has the shape local@domain with at
// least one dot in the domain and no whitespace anywhere.
func IsValidEmail(value string) bool {
	return emailRe.MatchString(value)
}

// IsValidPhone accepts an optional leading "+" followed by digits, spaces,
// hyphens and parentheses, and requires at least 10 digit characters.
func IsValidPhone(value string) bool {
	rest := strings.TrimPrefix(value, "+")
	digits := 0
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 10
}

// IsValidAge reports whether the value parses as an integer in [1, 120].
func IsValidAge(value string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return n >= 1 && n <= 120
}

// IsValidDate reports whether the value is a calendar day in ISO form
// (YYYY-MM-DD).
func IsValidDate(value string) bool {
	if len(value) != 10 || value[4] != '-' || value[7] != '-' {
		return false
	}
	for i, r := range value {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	month, _ := strconv.Atoi(value[5:7])
	day, _ := strconv.Atoi(value[8:10])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// ConsultationInput is the validatable subset of the consultation form.
type ConsultationInput struct {
	Name     string
	Age      string
	Gender   string
	Email    string
	Phone    string
	Duration string
	Severity string
}

// ConsultationForm checks the required fields of a consultation draft and the
// format of the optional contact fields. Email and phone are only checked
// when non-empty.
func ConsultationForm(in ConsultationInput) Result {
	errors := map[string]string{}

	if !IsRequired(in.Name) {
		errors["name"] = "Name is required"
	}
	if !IsValidAge(in.Age) {
		errors["age"] = "Please enter a valid age (1-120)"
	}
	if !IsRequired(in.Gender) {
		errors["gender"] = "Please select gender"
	}
	if !IsRequired(in.Duration) {
		errors["duration"] = "Please select symptom duration"
	}
	if !IsRequired(in.Severity) {
		errors["severity"] = "Please select severity level"
	}
	if in.Email != "" && !IsValidEmail(in.Email) {
		errors["email"] = "Please enter a valid email address"
	}
	if in.Phone != "" && !IsValidPhone(in.Phone) {
		errors["phone"] = "Please enter a valid phone number"
	}

	return Result{Valid: len(errors) == 0, Errors: errors}
}

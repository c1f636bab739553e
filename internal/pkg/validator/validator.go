package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-7][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUID validation
func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(strings.ToLower(id))
}

// Date validation (calendar date, no time component)
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Timestamp validation (RFC 3339)
func IsValidTimestamp(tsStr string) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, tsStr)
	return ts, err == nil
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{2,19}$`)

// Employee code validation: 3-20 chars, uppercase alphanumeric plus dashes.
func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

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

var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// NormalizeCPF strips punctuation (dots, dashes, spaces) from a Brazilian
// tax id, leaving digits only.
func NormalizeCPF(cpf string) string {
	return nonDigitRegex.ReplaceAllString(cpf, "")
}

// IsValidCPF checks the normalized form is exactly 11 digits.
func IsValidCPF(cpf string) bool {
	normalized := NormalizeCPF(cpf)
	return len(normalized) == 11
}

// IsValidDate parses a date in YYYY-MM-DD format.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// NormalizeDate canonicalizes a date to YYYY-MM-DD. Accepts ISO dates,
// ISO timestamps (time component dropped) and DD/MM/YYYY.
func NormalizeDate(dateStr string) (string, bool) {
	if idx := strings.Index(dateStr, "T"); idx > 0 {
		dateStr = dateStr[:idx]
	}
	if strings.Contains(dateStr, "/") {
		t, err := time.Parse("02/01/2006", dateStr)
		if err != nil {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}
	if _, ok := IsValidDate(dateStr); !ok {
		return "", false
	}
	return dateStr, true
}

// IsInSlice reports whether value appears in slice.
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

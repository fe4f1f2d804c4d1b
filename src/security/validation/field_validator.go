// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxFilenameLength    = 255
	MaxSourceLength      = 32
	MaxDescriptionLength = 1024
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateCurrencyCode checks that s is three letters, ignoring case.
func ValidateCurrencyCode(s string) error {
	code := strings.ToUpper(strings.TrimSpace(s))
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: currency code ('%s') is not in the expected format (3 letters)", ErrValidationFailed, s)
	}
	return nil
}

// ValidateSource checks that source is one of the allowed names.
func ValidateSource(source string, allowed []string) error {
	if err := ValidateStringMaxLength(source, MaxSourceLength, "source"); err != nil {
		return err
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(source), a) {
			return nil
		}
	}
	return fmt.Errorf("%w: source '%s' is not supported", ErrValidationFailed, source)
}

// ValidateReportID checks that id is a UUID.
func ValidateReportID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: report id '%s' is not valid", ErrValidationFailed, id)
	}
	return nil
}

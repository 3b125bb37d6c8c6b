package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidAccountName  = errors.New("invalid account name")
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	ErrInvalidTypeName     = errors.New("invalid type name")
)

// Validation constants
const (
	MaxNameLength = 255
	MinNameLength = 1
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateAccountName validates an account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxNameLength)
	}

	return nil
}

// ValidateCurrencyCode validates the shape of a currency code. Whether
// the code exists is a catalog lookup, not a shape check.
func ValidateCurrencyCode(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q must be three uppercase letters", ErrInvalidCurrencyCode, code)
	}

	return nil
}

// ValidateTypeName validates a catalog type name.
func ValidateTypeName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return ErrInvalidTypeName
	}

	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

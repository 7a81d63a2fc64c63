package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrInvalidOwnerName = errors.New("invalid owner name")
	ErrInvalidPIN       = errors.New("PIN must be 4 to 6 digits")
	ErrInvalidCurrency  = errors.New("invalid currency code")
)

var (
	accountIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
	pinRegex       = regexp.MustCompile(`^[0-9]{4,6}$`)
	currencyRegex  = regexp.MustCompile(`^[A-Z]{3}$`)
)

func ValidateAccountID(id string) error {
	if !accountIDRegex.MatchString(id) {
		return ErrInvalidAccountID
	}
	return nil
}

func ValidateOwnerName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 100 {
		return ErrInvalidOwnerName
	}
	return nil
}

// ValidatePIN only applies to new accounts. Login compares whatever was typed.
func ValidatePIN(pin string) error {
	if !pinRegex.MatchString(pin) {
		return ErrInvalidPIN
	}
	return nil
}

// ValidateCurrency checks shape only; whether the ledger supports the code is
// its own decision.
func ValidateCurrency(code string) error {
	if !currencyRegex.MatchString(code) {
		return ErrInvalidCurrency
	}
	return nil
}

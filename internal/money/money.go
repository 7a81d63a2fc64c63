package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrInvalidRate     = errors.New("invalid rate")
)

const (
	amountPlaces = 2
	ratePlaces   = 6
)

// Parse reads a user-entered amount such as "12", "-3.5" or "+0.25". The
// sign is kept; callers decide whether negatives are acceptable.
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	body := strings.TrimLeft(trimmed, "+-")
	if len(trimmed)-len(body) > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.SplitN(body, ".", 2)
	if parts[0] != "" && !isDigits(parts[0]) {
		return decimal.Zero, ErrInvalidAmount
	}
	if len(parts) == 2 {
		if parts[1] == "" || !isDigits(parts[1]) {
			return decimal.Zero, ErrInvalidAmount
		}
		if len(parts[1]) > amountPlaces {
			return decimal.Zero, ErrTooManyDecimals
		}
	}
	if parts[0] == "" && len(parts) == 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	normalized := "0" + body
	if strings.HasPrefix(trimmed, "-") {
		normalized = "-" + normalized
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}

// ParseRate reads an interest rate fraction such as "0.015" or "-0.01".
func ParseRate(input string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero, ErrInvalidRate
	}
	if rate.Exponent() < -ratePlaces {
		return decimal.Zero, ErrInvalidRate
	}
	return rate, nil
}

func Format(value decimal.Decimal) string {
	return value.StringFixed(amountPlaces)
}

func FormatWithCurrency(value decimal.Decimal, code string) string {
	return Format(value) + " " + code
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

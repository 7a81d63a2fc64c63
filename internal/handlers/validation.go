package handlers

import (
	"errors"
	"strings"
	"time"

	"ledger/internal/currency"
	"ledger/internal/money"
	"ledger/internal/validator"

	"github.com/shopspring/decimal"
)

const timeLayout = time.RFC3339Nano

var (
	errInvalidAmount = errors.New("invalid amount")
	errInvalidRate   = errors.New("invalid rate")
	errInvalidWindow = errors.New("invalid time window")
)

// parsePositiveAmount accepts amounts the HTTP API lets a caller move:
// strictly positive with at most two decimal places.
func parsePositiveAmount(raw string) (decimal.Decimal, error) {
	amount, err := money.Parse(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, errInvalidAmount
	}
	return amount, nil
}

func parseOpeningBalance(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	amount, err := money.Parse(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, errInvalidAmount
	}
	return amount, nil
}

func parseRate(raw string) (decimal.Decimal, error) {
	rate, err := money.ParseRate(raw)
	if err != nil {
		return decimal.Zero, errInvalidRate
	}
	return rate, nil
}

// normalizeCurrency upper-cases the code and defaults to GBP.
func normalizeCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return currency.Reference, nil
	}
	if err := validator.ValidateCurrency(code); err != nil {
		return "", err
	}
	return code, nil
}

// parseWindow reads optional RFC 3339 bounds. A missing bound leaves that
// side of the window open.
func parseWindow(rawFrom, rawTo string) (time.Time, time.Time, bool, error) {
	if rawFrom == "" && rawTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	from := time.Time{}
	to := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if rawFrom != "" {
		parsed, err := time.Parse(time.RFC3339, rawFrom)
		if err != nil {
			return time.Time{}, time.Time{}, false, errInvalidWindow
		}
		from = parsed
	}
	if rawTo != "" {
		parsed, err := time.Parse(time.RFC3339, rawTo)
		if err != nil {
			return time.Time{}, time.Time{}, false, errInvalidWindow
		}
		to = parsed
	}
	return from, to, true, nil
}

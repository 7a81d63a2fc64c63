package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Reference is the currency every balance and transaction amount is held in.
const Reference = "GBP"

var ErrInvalidRates = errors.New("invalid exchange rates")

// Rates maps a currency code to its value in GBP. The reference currency is
// implicit (rate 1) and never stored as a key.
type Rates map[string]decimal.Decimal

func DefaultRates() Rates {
	return Rates{
		"EUR": decimal.RequireFromString("1.13"),
		"USD": decimal.RequireFromString("1.24"),
		"AUD": decimal.RequireFromString("1.80"),
		"CNY": decimal.RequireFromString("8.70"),
		"CHF": decimal.RequireFromString("1.07"),
	}
}

func (r Rates) Supported(code string) bool {
	if code == Reference {
		return true
	}
	_, ok := r[code]
	return ok
}

// Rate returns zero for unknown codes.
func (r Rates) Rate(code string) decimal.Decimal {
	if code == Reference {
		return decimal.NewFromInt(1)
	}
	rate, ok := r[code]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// Convert returns amount * rate(from) / rate(to), or exactly zero when either
// code is unknown.
func (r Rates) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	rateFrom := r.Rate(from)
	rateTo := r.Rate(to)
	if rateFrom.IsZero() || rateTo.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(rateFrom).Div(rateTo)
}

func (r Rates) Codes() []string {
	codes := make([]string, 0, len(r)+1)
	codes = append(codes, Reference)
	for code := range r {
		codes = append(codes, code)
	}
	sort.Strings(codes[1:])
	return codes
}

func (r Rates) Clone() Rates {
	out := make(Rates, len(r))
	for code, rate := range r {
		out[code] = rate
	}
	return out
}

// ParseRates reads "EUR=1.13,USD=1.24" style tables.
func ParseRates(raw string) (Rates, error) {
	rates := Rates{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRates, pair)
		}
		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		if code == "" || code == Reference {
			return nil, fmt.Errorf("%w: bad code %q", ErrInvalidRates, parts[0])
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil || rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: bad rate for %s", ErrInvalidRates, code)
		}
		rates[code] = rate
	}
	if len(rates) == 0 {
		return nil, ErrInvalidRates
	}
	return rates, nil
}

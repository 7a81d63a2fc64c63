package bank

import "errors"

// Reason tags why a ledger operation left state unchanged.
type Reason string

const (
	NegativeAmount      Reason = "negative_amount"
	UnsupportedCurrency Reason = "unsupported_currency"
	ConversionError     Reason = "conversion_error"
	InsufficientFunds   Reason = "insufficient_funds"
	NotFound            Reason = "not_found"
	Locked              Reason = "locked"
	InvalidPIN          Reason = "invalid_pin"
	AlreadyExists       Reason = "already_exists"
)

type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNegativeAmount      = &Error{Reason: NegativeAmount, Message: "cannot deposit a negative amount"}
	ErrUnsupportedCurrency = &Error{Reason: UnsupportedCurrency, Message: "currency not supported"}
	ErrConversion          = &Error{Reason: ConversionError, Message: "error in currency conversion"}
	ErrInsufficientFunds   = &Error{Reason: InsufficientFunds, Message: "insufficient funds"}
	ErrNotFound            = &Error{Reason: NotFound, Message: "account not found"}
	ErrLocked              = &Error{Reason: Locked, Message: "account is temporarily locked"}
	ErrInvalidPIN          = &Error{Reason: InvalidPIN, Message: "invalid PIN"}
	ErrAlreadyExists       = &Error{Reason: AlreadyExists, Message: "an account with this ID already exists"}
)

// ReasonOf extracts the failure tag from err, looking through wrapping.
func ReasonOf(err error) (Reason, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}

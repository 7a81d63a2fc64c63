package handlers

import (
	"encoding/json"
	"net/http"

	"ledger/internal/bank"
	"ledger/internal/currency"
	"ledger/internal/middleware"
	"ledger/internal/money"
)

type accountResponse struct {
	ID               string `json:"id"`
	OwnerName        string `json:"owner_name"`
	Balance          string `json:"balance"`
	Currency         string `json:"currency"`
	TransactionCount int    `json:"transaction_count"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

func toAccountResponse(view bank.AccountView) accountResponse {
	return accountResponse{
		ID:               view.ID,
		OwnerName:        view.OwnerName,
		Balance:          money.Format(view.Balance),
		Currency:         currency.Reference,
		TransactionCount: view.TransactionCount,
	}
}

func toTransactionResponse(tx bank.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.UTC().Format(timeLayout),
		Amount:      money.Format(tx.Amount),
		Description: tx.Description,
		Currency:    tx.Currency,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Reasons for requests the shell refuses before they reach the ledger.
// Ledger refusals carry their bank.Reason instead.
const (
	reasonInvalidRequest = "invalid_request"
	reasonInvalidAmount  = "invalid_amount"
	reasonUnavailable    = "unavailable"
	reasonInternal       = "internal_error"
)

func respondError(w http.ResponseWriter, status int, message, reason string) {
	middleware.WriteError(w, status, message, reason)
}

func respondReason(w http.ResponseWriter, status int, message string, reason bank.Reason) {
	respondError(w, status, message, string(reason))
}

// respondLedgerError maps a ledger outcome onto an HTTP status. Anything
// without a reason is unexpected and reported as a 500.
func (h *Handler) respondLedgerError(w http.ResponseWriter, err error) {
	reason, ok := bank.ReasonOf(err)
	if !ok {
		h.logger.Error("ledger operation failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error", reasonInternal)
		return
	}
	respondReason(w, statusForReason(reason), err.Error(), reason)
}

func statusForReason(reason bank.Reason) int {
	switch reason {
	case bank.NegativeAmount, bank.UnsupportedCurrency, bank.ConversionError:
		return http.StatusBadRequest
	case bank.InsufficientFunds, bank.AlreadyExists:
		return http.StatusConflict
	case bank.NotFound:
		return http.StatusNotFound
	case bank.InvalidPIN:
		return http.StatusUnauthorized
	case bank.Locked:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

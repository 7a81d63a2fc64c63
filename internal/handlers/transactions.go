package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ledger/internal/currency"
	"ledger/internal/middleware"
	"ledger/internal/money"
)

type depositRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload", reasonInvalidRequest)
		return
	}
	// Sign and conversion checks belong to the ledger so its reasons reach
	// the caller unchanged.
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", reasonInvalidAmount)
		return
	}
	code, err := normalizeCurrency(req.Currency)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	tx, err := h.ledger.DepositToAccount(r.Context(), accountID, amount, code)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	h.respondWithBalance(w, accountID, tx.ID, money.Format(tx.Amount))
}

type withdrawRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload", reasonInvalidRequest)
		return
	}
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", reasonInvalidAmount)
		return
	}
	tx, err := h.ledger.Withdraw(r.Context(), accountID, amount)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	h.respondWithBalance(w, accountID, tx.ID, money.Format(tx.Amount))
}

type transferRequest struct {
	ToAccountID string `json:"to_account_id"`
	Amount      string `json:"amount"`
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload", reasonInvalidRequest)
		return
	}
	toAccountID := strings.TrimSpace(req.ToAccountID)
	if toAccountID == "" {
		respondError(w, http.StatusBadRequest, "to_account_id is required", reasonInvalidRequest)
		return
	}
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", reasonInvalidAmount)
		return
	}
	if err := h.ledger.Transfer(r.Context(), accountID, toAccountID, amount); err != nil {
		h.respondLedgerError(w, err)
		return
	}
	account, err := h.ledger.Account(accountID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"from_account_id": accountID,
		"to_account_id":   toAccountID,
		"amount":          money.Format(amount),
		"balance":         money.Format(account.Balance()),
		"currency":        currency.Reference,
	})
}

func (h *Handler) respondWithBalance(w http.ResponseWriter, accountID, transactionID, amount string) {
	account, err := h.ledger.Account(accountID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"transaction_id": transactionID,
		"amount":         amount,
		"balance":        money.Format(account.Balance()),
		"currency":       currency.Reference,
	})
}

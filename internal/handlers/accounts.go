package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ledger/internal/middleware"
	"ledger/internal/money"
	"ledger/internal/validator"
)

type createAccountRequest struct {
	AccountID      string `json:"account_id"`
	OwnerName      string `json:"owner_name"`
	PIN            string `json:"pin"`
	InitialBalance string `json:"initial_balance"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload", reasonInvalidRequest)
		return
	}
	req.AccountID = strings.TrimSpace(req.AccountID)
	if err := validator.ValidateAccountID(req.AccountID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	if err := validator.ValidateOwnerName(req.OwnerName); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	if err := validator.ValidatePIN(req.PIN); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	initial, err := parseOpeningBalance(req.InitialBalance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", reasonInvalidAmount)
		return
	}
	view, err := h.ledger.CreateAccount(r.Context(), req.AccountID, strings.TrimSpace(req.OwnerName), req.PIN, initial)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAccountResponse(view))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	account, err := h.ledger.Account(accountID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account.View()))
}

// GetBalance reports the balance converted into ?currency= (GBP by default).
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	code, err := normalizeCurrency(r.URL.Query().Get("currency"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	account, err := h.ledger.Account(accountID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	balance, err := account.BalanceIn(code)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"account_id": accountID,
		"balance":    money.Format(balance),
		"currency":   code,
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	query := r.URL.Query()
	from, to, windowed, err := parseWindow(query.Get("from"), query.Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	account, err := h.ledger.Account(accountID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	txs := account.Transactions()
	if windowed {
		txs = account.TransactionsBetween(from, to)
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	respondJSON(w, http.StatusOK, out)
}

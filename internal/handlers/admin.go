package handlers

import (
	"encoding/json"
	"net/http"

	"ledger/internal/currency"
	"ledger/internal/middleware"
	"ledger/internal/money"
	"ledger/internal/websocket"
)

type interestRequest struct {
	Rate string `json:"rate"`
}

// ApplyInterest credits balance*rate to every account. Negative rates are
// accepted and reduce balances.
func (h *Handler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload", reasonInvalidRequest)
		return
	}
	rate, err := parseRate(req.Rate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), reasonInvalidRequest)
		return
	}
	count := h.ledger.ApplyInterestToAllAccounts(r.Context(), rate)
	h.logger.Info("operator applied interest", "rate", rate, "accounts", count)
	respondJSON(w, http.StatusOK, map[string]any{
		"rate":     rate.String(),
		"accounts": count,
	})
}

func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates := h.ledger.Rates()
	out := make(map[string]string, len(rates)+1)
	for _, code := range rates.Codes() {
		out[code] = rates.Rate(code).String()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"base":  currency.Reference,
		"rates": out,
	})
}

// WSBalances streams balance updates for the session's account. Auth runs
// first, so the token may come from the header or the ?token= query.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session", middleware.ReasonUnauthorized)
		return
	}
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "balance feed disabled", reasonUnavailable)
		return
	}
	account, err := h.ledger.Account(accountID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	h.logger.Debug("balance feed opened", "account_id", accountID, "balance", money.Format(account.Balance()))
	websocket.ServeWS(w, r, h.hub, accountID)
}

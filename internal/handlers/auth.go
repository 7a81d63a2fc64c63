package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ledger/internal/auth"
	"ledger/internal/bank"
)

type loginRequest struct {
	AccountID string `json:"account_id"`
	PIN       string `json:"pin"`
}

// Login runs the PIN check with lockout and hands out a session token. An
// unknown account answers exactly like a wrong PIN.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload", reasonInvalidRequest)
		return
	}
	if err := h.ledger.Login(r.Context(), req.AccountID, req.PIN); err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			respondReason(w, http.StatusUnauthorized, bank.ErrInvalidPIN.Error(), bank.InvalidPIN)
			return
		}
		h.respondLedgerError(w, err)
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, req.AccountID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token", reasonInternal)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"token":      token,
		"account_id": req.AccountID,
		"expires_at": time.Now().Add(h.cfg.TokenTTL).UTC().Format(time.RFC3339),
	})
}

package middleware

import (
	"encoding/json"
	"net/http"
)

// Reasons for refusals that happen before a request reaches the ledger.
const (
	ReasonUnauthorized = "unauthorized"
	ReasonForbidden    = "forbidden"
)

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// WriteError writes the API error shape {"error": message, "reason": reason}.
func WriteError(w http.ResponseWriter, status int, message, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message, Reason: reason})
}

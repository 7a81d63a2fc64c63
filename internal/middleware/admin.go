package middleware

import (
	"net/http"

	"ledger/internal/auth"
)

const OperatorKeyHeader = "X-Operator-Key"

// RequireOperator guards bulk operations that are not tied to a single
// account session. With no hash configured every request is refused.
func RequireOperator(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keyHash == "" {
				WriteError(w, http.StatusForbidden, "operator access disabled", ReasonForbidden)
				return
			}
			key := r.Header.Get(OperatorKeyHeader)
			if key == "" {
				WriteError(w, http.StatusUnauthorized, "missing operator key", ReasonUnauthorized)
				return
			}
			if !auth.CheckOperatorKey(keyHash, key) {
				WriteError(w, http.StatusForbidden, "invalid operator key", ReasonForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

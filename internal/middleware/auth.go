package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/auth"

	"github.com/gorilla/websocket"
)

type sessionKey struct{}

var (
	errMissingSession   = errors.New("missing session token")
	errMalformedSession = errors.New("authorization header must be a bearer token")
	errExpiredSession   = errors.New("session is invalid or expired")
)

func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(sessionKey{}).(string)
	return accountID, ok && accountID != ""
}

// Auth resolves the session token to the logged-in account id. Browsers
// cannot set headers on a websocket handshake, so upgrade requests may pass
// the token as ?token= instead.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := sessionToken(r)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, err.Error(), ReasonUnauthorized)
				return
			}
			claims, err := auth.ParseToken(secret, raw)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, errExpiredSession.Error(), ReasonUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if token := r.URL.Query().Get("token"); token != "" && websocket.IsWebSocketUpgrade(r) {
			return token, nil
		}
		return "", errMissingSession
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMalformedSession
	}
	return strings.TrimSpace(token), nil
}

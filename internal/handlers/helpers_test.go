package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger/internal/auth"
	"ledger/internal/bank"
	"ledger/internal/config"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const testOperatorKey = "op-key"

type testServer struct {
	ledger  *bank.Ledger
	store   *store.MemoryStore
	handler http.Handler
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testOperatorKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash operator key: %v", err)
	}
	logger := log.New(io.Discard)
	hub := websocket.NewHub(logger)
	mem := store.NewMemoryStore()
	ledger := bank.NewLedger(mem, bank.WithLogger(logger), bank.WithNotifier(hub))
	cfg := config.Config{
		JWTSecret:       "secret",
		TokenTTL:        time.Minute,
		AllowedOrigins:  "*",
		OperatorKeyHash: string(hash),
	}
	return testServer{
		ledger:  ledger,
		store:   mem,
		handler: New(cfg, ledger, hub, logger).Routes(),
	}
}

func (s testServer) seed(t *testing.T, id, pin, balance string) {
	t.Helper()
	if _, err := s.ledger.CreateAccount(context.Background(), id, "Owner "+id, pin, decimal.RequireFromString(balance)); err != nil {
		t.Fatalf("failed to seed %s: %v", id, err)
	}
}

func tokenFor(t *testing.T, accountID string) string {
	t.Helper()
	token, err := auth.GenerateToken("secret", accountID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func (s testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

func expectReason(t *testing.T, rr *httptest.ResponseRecorder, status int, reason bank.Reason) {
	t.Helper()
	expectErrorReason(t, rr, status, string(reason))
}

// expectErrorReason checks the full error contract: status, JSON content
// type, a non-empty message and the reason code.
func expectErrorReason(t *testing.T, rr *httptest.ResponseRecorder, status int, reason string) {
	t.Helper()
	expectStatus(t, rr, status)
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q: %s", ct, rr.Body.String())
	}
	payload := decodeObject(t, rr)
	if payload["reason"] != reason {
		t.Fatalf("expected reason %s, got %#v", reason, payload)
	}
	if msg, _ := payload["error"].(string); msg == "" {
		t.Fatalf("expected an error message, got %#v", payload)
	}
}

package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"ledger/internal/currency"
	"ledger/internal/money"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

type BalanceUpdate struct {
	AccountID string    `json:"account_id"`
	Balance   string    `json:"balance"`
	Currency  string    `json:"currency"`
	At        time.Time `json:"at"`
}

// Hub fans balance updates out to every socket subscribed to an account.
// Slow subscribers miss updates instead of blocking the ledger.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *log.Logger
	now     func() time.Time
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Hub) Register(accountID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[accountID] == nil {
		h.clients[accountID] = make(map[*Client]struct{})
	}
	h.clients[accountID][client] = struct{}{}
	h.logger.Debug("balance subscriber joined", "account_id", accountID, "subscribers", len(h.clients[accountID]))
}

func (h *Hub) Unregister(accountID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[accountID] == nil {
		return
	}
	if _, ok := h.clients[accountID][client]; !ok {
		return
	}
	delete(h.clients[accountID], client)
	if len(h.clients[accountID]) == 0 {
		delete(h.clients, accountID)
	}
	h.logger.Debug("balance subscriber left", "account_id", accountID)
}

// Subscribers reports how many sockets are listening on accountID.
func (h *Hub) Subscribers(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

// NotifyBalance satisfies bank.BalanceNotifier.
func (h *Hub) NotifyBalance(accountID string, balance decimal.Decimal) {
	h.BroadcastBalance(accountID, BalanceUpdate{
		AccountID: accountID,
		Balance:   money.Format(balance),
		Currency:  currency.Reference,
		At:        h.now().UTC(),
	})
}

func (h *Hub) BroadcastBalance(accountID string, update BalanceUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("encode balance update", "account_id", accountID, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[accountID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("dropping balance update for slow subscriber", "account_id", accountID)
		}
	}
}

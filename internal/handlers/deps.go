package handlers

import (
	"context"

	"ledger/internal/bank"
	"ledger/internal/currency"

	"github.com/shopspring/decimal"
)

// Ledger is the slice of *bank.Ledger the HTTP API drives.
type Ledger interface {
	CreateAccount(ctx context.Context, id, ownerName, pin string, initialBalance decimal.Decimal) (bank.AccountView, error)
	Login(ctx context.Context, id, pin string) error
	Account(id string) (*bank.Account, error)
	DepositToAccount(ctx context.Context, id string, amount decimal.Decimal, code string) (bank.Transaction, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (bank.Transaction, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error
	ApplyInterestToAllAccounts(ctx context.Context, rate decimal.Decimal) int
	Rates() currency.Rates
}

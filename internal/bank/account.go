// Package bank holds the ledger's domain model: accounts with a GBP balance,
// a PIN and an append-only transaction history, and the Ledger that owns
// them, coordinates transfers and login lockout, and persists the whole
// collection after every change.
package bank

import (
	"crypto/subtle"
	"sync"
	"time"

	"ledger/internal/currency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DescInitialDeposit = "Initial Deposit"
	DescDeposit        = "Deposit"
	DescWithdrawal     = "Withdrawal"
	DescInterest       = "Interest Applied"
)

// Transaction records one balance change. Amount is already in GBP; Currency
// is the code the caller used and is kept for display only.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
}

// AccountView is a point-in-time copy of an account's public fields.
type AccountView struct {
	ID                  string          `json:"id"`
	OwnerName           string          `json:"owner_name"`
	Balance             decimal.Decimal `json:"balance"`
	FailedLoginAttempts int             `json:"failed_login_attempts"`
	LastFailedLogin     time.Time       `json:"last_failed_login"`
	TransactionCount    int             `json:"transaction_count"`
}

// Account guards each balance change together with its transaction entry.
type Account struct {
	mu                  sync.Mutex
	id                  string
	ownerName           string
	pin                 string
	balance             decimal.Decimal
	transactions        []Transaction
	failedLoginAttempts int
	lastFailedLogin     time.Time

	rates currency.Rates
	now   func() time.Time
}

// NewAccount opens an account and records the initial balance as its first
// transaction. The initial balance is taken as given, sign included.
func NewAccount(id, ownerName, pin string, initialBalance decimal.Decimal, rates currency.Rates, now func() time.Time) *Account {
	a := newAccount(id, ownerName, pin, rates, now)
	a.balance = initialBalance
	a.appendLocked(initialBalance, DescInitialDeposit, currency.Reference)
	return a
}

func newAccount(id, ownerName, pin string, rates currency.Rates, now func() time.Time) *Account {
	if rates == nil {
		rates = currency.DefaultRates()
	}
	if now == nil {
		now = time.Now
	}
	return &Account{
		id:        id,
		ownerName: ownerName,
		pin:       pin,
		rates:     rates,
		now:       now,
	}
}

func (a *Account) ID() string {
	return a.id
}

func (a *Account) OwnerName() string {
	return a.ownerName
}

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) View() AccountView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountView{
		ID:                  a.id,
		OwnerName:           a.ownerName,
		Balance:             a.balance,
		FailedLoginAttempts: a.failedLoginAttempts,
		LastFailedLogin:     a.lastFailedLogin,
		TransactionCount:    len(a.transactions),
	}
}

// Deposit credits amount given in code, converted to GBP.
func (a *Account) Deposit(amount decimal.Decimal, code string) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.depositLocked(amount, code)
}

func (a *Account) depositLocked(amount decimal.Decimal, code string) (Transaction, error) {
	converted, err := a.checkDeposit(amount, code)
	if err != nil {
		return Transaction{}, err
	}
	a.balance = a.balance.Add(converted)
	return a.appendLocked(converted, DescDeposit, code), nil
}

func (a *Account) checkDeposit(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if !a.rates.Supported(code) {
		return decimal.Zero, ErrUnsupportedCurrency
	}
	converted := a.rates.Convert(amount, code, currency.Reference)
	if converted.IsZero() {
		return decimal.Zero, ErrConversion
	}
	return converted, nil
}

// Withdraw debits amount in GBP if the balance covers it. The amount is not
// checked for sign.
func (a *Account) Withdraw(amount decimal.Decimal) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdrawLocked(amount)
}

func (a *Account) withdrawLocked(amount decimal.Decimal) (Transaction, error) {
	if amount.GreaterThan(a.balance) {
		return Transaction{}, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return a.appendLocked(amount.Neg(), DescWithdrawal, currency.Reference), nil
}

// ApplyInterest adds balance*rate. Any rate is accepted; a negative one
// reduces the balance.
func (a *Account) ApplyInterest(rate decimal.Decimal) Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	interest := a.balance.Mul(rate)
	a.balance = a.balance.Add(interest)
	return a.appendLocked(interest, DescInterest, currency.Reference)
}

func (a *Account) ConvertCurrency(amount decimal.Decimal, from, to string) decimal.Decimal {
	return a.rates.Convert(amount, from, to)
}

// BalanceIn reports the current balance expressed in code.
func (a *Account) BalanceIn(code string) (decimal.Decimal, error) {
	if !a.rates.Supported(code) {
		return decimal.Zero, ErrUnsupportedCurrency
	}
	converted := a.rates.Convert(a.Balance(), currency.Reference, code)
	return converted, nil
}

func (a *Account) Transactions() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// TransactionsBetween returns entries strictly after start and strictly
// before end, in insertion order.
func (a *Account) TransactionsBetween(start, end time.Time) []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Transaction, 0)
	for _, tx := range a.transactions {
		if tx.Date.After(start) && tx.Date.Before(end) {
			out = append(out, tx)
		}
	}
	return out
}

func (a *Account) ValidatePIN(attempt string) bool {
	return subtle.ConstantTimeCompare([]byte(a.pin), []byte(attempt)) == 1
}

func (a *Account) appendLocked(amount decimal.Decimal, description, code string) Transaction {
	tx := Transaction{
		ID:          uuid.NewString(),
		Date:        a.now(),
		Amount:      amount,
		Description: description,
		Currency:    code,
	}
	a.transactions = append(a.transactions, tx)
	return tx
}

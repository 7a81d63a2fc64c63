package bank

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"ledger/internal/currency"
	"ledger/internal/store"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

type Store interface {
	Load(ctx context.Context) (store.Snapshot, error)
	Save(ctx context.Context, snap store.Snapshot) error
}

type BalanceNotifier interface {
	NotifyBalance(accountID string, balance decimal.Decimal)
}

type LockoutPolicy struct {
	Threshold int
	Window    time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: 3, Window: 60 * time.Second}
}

// Ledger owns every account and writes the whole collection to its store
// after each mutating operation. Persistence failures are logged and never
// fail the operation that triggered them.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*Account

	// saveMu orders writes: a snapshot is taken and stored under it, so an
	// older snapshot can never land after a newer one.
	saveMu sync.Mutex

	store    Store
	rates    currency.Rates
	now      func() time.Time
	lockout  LockoutPolicy
	logger   *log.Logger
	notifier BalanceNotifier
}

type Option func(*Ledger)

func WithRates(rates currency.Rates) Option {
	return func(l *Ledger) {
		l.rates = rates.Clone()
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func WithLockout(policy LockoutPolicy) Option {
	return func(l *Ledger) {
		l.lockout = policy
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func WithNotifier(notifier BalanceNotifier) Option {
	return func(l *Ledger) {
		l.notifier = notifier
	}
}

func NewLedger(s Store, opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(map[string]*Account),
		store:    s,
		rates:    currency.DefaultRates(),
		now:      time.Now,
		lockout:  DefaultLockoutPolicy(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ledger"})
	}
	return l
}

func (l *Ledger) CreateAccount(ctx context.Context, id, ownerName, pin string, initialBalance decimal.Decimal) (AccountView, error) {
	l.mu.Lock()
	if _, ok := l.accounts[id]; ok {
		l.mu.Unlock()
		l.logger.Warn("account already exists", "account_id", id)
		return AccountView{}, fmt.Errorf("account %s: %w", id, ErrAlreadyExists)
	}
	account := NewAccount(id, ownerName, pin, initialBalance, l.rates, l.now)
	l.accounts[id] = account
	l.mu.Unlock()

	l.logger.Info("account created", "account_id", id)
	l.persist(ctx)
	l.notify(account)
	return account.View(), nil
}

// Login checks pinAttempt against the account PIN. Once Threshold
// consecutive failures have accumulated, attempts inside Window of the last
// failure are refused without looking at the PIN.
func (l *Ledger) Login(ctx context.Context, id, pinAttempt string) error {
	account, err := l.lookup(id)
	if err != nil {
		l.logger.Warn("login for unknown account", "account_id", id)
		return err
	}

	account.mu.Lock()
	now := l.now()
	if account.failedLoginAttempts >= l.lockout.Threshold && now.Sub(account.lastFailedLogin) < l.lockout.Window {
		account.mu.Unlock()
		l.logger.Warn("account is temporarily locked", "account_id", id)
		return fmt.Errorf("account %s: %w", id, ErrLocked)
	}
	if account.ValidatePIN(pinAttempt) {
		changed := account.failedLoginAttempts != 0
		account.failedLoginAttempts = 0
		account.mu.Unlock()
		l.logger.Info("login successful", "account_id", id)
		if changed {
			l.persist(ctx)
		}
		return nil
	}
	account.failedLoginAttempts++
	account.lastFailedLogin = now
	attempts := account.failedLoginAttempts
	account.mu.Unlock()

	l.logger.Warn("invalid PIN", "account_id", id, "attempt", fmt.Sprintf("%d/%d", attempts, l.lockout.Threshold))
	if attempts >= l.lockout.Threshold {
		l.logger.Warn("account locked", "account_id", id, "retry_after", l.lockout.Window)
	}
	l.persist(ctx)
	return fmt.Errorf("account %s: %w", id, ErrInvalidPIN)
}

// Account resolves id for a shell. Mutating the returned account directly
// bypasses persistence; use the Ledger methods for that.
func (l *Ledger) Account(id string) (*Account, error) {
	return l.lookup(id)
}

// Accounts lists every account ordered by id.
func (l *Ledger) Accounts() []AccountView {
	l.mu.RLock()
	ids := l.sortedIDsLocked()
	accounts := make([]*Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, l.accounts[id])
	}
	l.mu.RUnlock()

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, account.View())
	}
	return views
}

func (l *Ledger) DepositToAccount(ctx context.Context, id string, amount decimal.Decimal, code string) (Transaction, error) {
	account, err := l.lookup(id)
	if err != nil {
		l.logger.Warn("account not found", "account_id", id)
		return Transaction{}, err
	}
	tx, err := account.Deposit(amount, code)
	if err != nil {
		l.logger.Warn("deposit rejected", "account_id", id, "amount", amount, "currency", code, "err", err)
		return Transaction{}, fmt.Errorf("account %s: %w", id, err)
	}
	l.persist(ctx)
	l.notify(account)
	return tx, nil
}

// Deposit is DepositToAccount.
func (l *Ledger) Deposit(ctx context.Context, id string, amount decimal.Decimal, code string) (Transaction, error) {
	return l.DepositToAccount(ctx, id, amount, code)
}

func (l *Ledger) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (Transaction, error) {
	account, err := l.lookup(id)
	if err != nil {
		return Transaction{}, err
	}
	tx, err := account.Withdraw(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("account %s: %w", id, err)
	}
	l.persist(ctx)
	l.notify(account)
	return tx, nil
}

// Transfer moves amount (GBP) between two accounts. The credit leg is
// validated before the debit so the pair either both happen or neither does.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	from, err := l.lookup(fromID)
	if err != nil {
		return err
	}
	to, err := l.lookup(toID)
	if err != nil {
		return err
	}

	unlock := lockPair(from, to)
	if _, err := to.checkDeposit(amount, currency.Reference); err != nil {
		unlock()
		return fmt.Errorf("transfer %s->%s: %w", fromID, toID, err)
	}
	if _, err := from.withdrawLocked(amount); err != nil {
		unlock()
		return fmt.Errorf("account %s: %w", fromID, err)
	}
	if _, err := to.depositLocked(amount, currency.Reference); err != nil {
		// checkDeposit passed under the same lock, so this cannot happen.
		unlock()
		return err
	}
	unlock()

	l.logger.Info("transfer completed", "from", fromID, "to", toID, "amount", amount)
	l.persist(ctx)
	l.notify(from)
	if to != from {
		l.notify(to)
	}
	return nil
}

// ApplyInterestToAllAccounts applies rate to every account and persists once
// afterwards. It returns the number of accounts touched.
func (l *Ledger) ApplyInterestToAllAccounts(ctx context.Context, rate decimal.Decimal) int {
	l.mu.RLock()
	accounts := make([]*Account, 0, len(l.accounts))
	for _, id := range l.sortedIDsLocked() {
		accounts = append(accounts, l.accounts[id])
	}
	l.mu.RUnlock()

	for _, account := range accounts {
		account.ApplyInterest(rate)
	}
	l.logger.Info("interest applied", "rate", rate, "accounts", len(accounts))
	l.persist(ctx)
	for _, account := range accounts {
		l.notify(account)
	}
	return len(accounts)
}

func (l *Ledger) ConvertCurrency(amount decimal.Decimal, from, to string) decimal.Decimal {
	return l.rates.Convert(amount, from, to)
}

func (l *Ledger) Rates() currency.Rates {
	return l.rates.Clone()
}

func (l *Ledger) Lockout() LockoutPolicy {
	return l.lockout
}

func (l *Ledger) Save(ctx context.Context) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()
	return l.store.Save(ctx, l.snapshot())
}

// Load replaces the in-memory accounts with the stored snapshot. A missing
// snapshot leaves an empty ledger; any other failure leaves the current
// accounts untouched and is returned.
func (l *Ledger) Load(ctx context.Context) error {
	snap, err := l.store.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			l.logger.Info("no existing accounts found")
			return nil
		}
		return fmt.Errorf("load accounts: %w", err)
	}
	accounts := make(map[string]*Account, len(snap.Accounts))
	for _, persisted := range snap.Accounts {
		accounts[persisted.ID] = accountFromPersisted(persisted, l.rates, l.now)
	}
	l.mu.Lock()
	l.accounts = accounts
	l.mu.Unlock()
	l.logger.Info("accounts loaded", "count", len(accounts))
	return nil
}

func (l *Ledger) lookup(id string) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	account, ok := l.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return account, nil
}

func (l *Ledger) persist(ctx context.Context) {
	if err := l.Save(ctx); err != nil {
		l.logger.Error("error saving accounts", "err", err)
	}
}

func (l *Ledger) notify(account *Account) {
	if l.notifier == nil {
		return
	}
	l.notifier.NotifyBalance(account.ID(), account.Balance())
}

func (l *Ledger) sortedIDsLocked() []string {
	ids := maps.Keys(l.accounts)
	sort.Strings(ids)
	return ids
}

// lockPair locks both accounts in id order so two opposing transfers cannot
// deadlock. A self-transfer takes the lock once.
func lockPair(first, second *Account) func() {
	if first == second {
		first.mu.Lock()
		return first.mu.Unlock
	}
	left, right := first, second
	if right.id < left.id {
		left, right = right, left
	}
	left.mu.Lock()
	right.mu.Lock()
	return func() {
		right.mu.Unlock()
		left.mu.Unlock()
	}
}

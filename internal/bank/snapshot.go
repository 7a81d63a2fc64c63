package bank

import (
	"time"

	"ledger/internal/currency"
	"ledger/internal/store"
)

func (l *Ledger) snapshot() store.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snap := store.Snapshot{Accounts: make([]store.PersistedAccount, 0, len(l.accounts))}
	for _, id := range l.sortedIDsLocked() {
		snap.Accounts = append(snap.Accounts, l.accounts[id].toPersisted())
	}
	return snap
}

func (a *Account) toPersisted() store.PersistedAccount {
	a.mu.Lock()
	defer a.mu.Unlock()
	txs := make([]store.PersistedTransaction, 0, len(a.transactions))
	for _, tx := range a.transactions {
		txs = append(txs, store.PersistedTransaction{
			ID:          tx.ID,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Description: tx.Description,
			Currency:    tx.Currency,
		})
	}
	return store.PersistedAccount{
		ID:                  a.id,
		OwnerName:           a.ownerName,
		PIN:                 a.pin,
		Balance:             a.balance,
		Transactions:        txs,
		FailedLoginAttempts: a.failedLoginAttempts,
		LastFailedLogin:     a.lastFailedLogin,
	}
}

func accountFromPersisted(p store.PersistedAccount, rates currency.Rates, now func() time.Time) *Account {
	a := newAccount(p.ID, p.OwnerName, p.PIN, rates, now)
	a.balance = p.Balance
	a.failedLoginAttempts = p.FailedLoginAttempts
	a.lastFailedLogin = p.LastFailedLogin
	a.transactions = make([]Transaction, 0, len(p.Transactions))
	for _, tx := range p.Transactions {
		a.transactions = append(a.transactions, Transaction{
			ID:          tx.ID,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Description: tx.Description,
			Currency:    tx.Currency,
		})
	}
	return a
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrRetryLimit = errors.New("transaction retry limit exceeded")

// RetryPolicy bounds how often a serialization failure is retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseBackoff: 20 * time.Millisecond}
}

// SQLXTxRunner runs snapshot writes in serializable transactions. It
// satisfies store.TxRunner.
type SQLXTxRunner struct {
	db     *sqlx.DB
	policy RetryPolicy
	logger *log.Logger
}

func NewTxRunner(db *sqlx.DB, logger *log.Logger) SQLXTxRunner {
	if logger == nil {
		logger = log.Default()
	}
	return SQLXTxRunner{db: db, policy: DefaultRetryPolicy(), logger: logger}
}

func (r SQLXTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return withTx(ctx, r.db, r.policy, r.logger, fn)
}

func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	// One ledger writes one row; a small pool is plenty.
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func withTx(ctx context.Context, db *sqlx.DB, policy RetryPolicy, logger *log.Logger, fn func(*sqlx.Tx) error) error {
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return err
		}
		err = fn(tx)
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
		if err == nil {
			return nil
		}
		if !isRetryablePGError(err) || attempt == policy.MaxAttempts {
			if isRetryablePGError(err) {
				return fmt.Errorf("%w: %v", ErrRetryLimit, err)
			}
			return err
		}
		logger.Warn("retrying serializable transaction", "attempt", attempt, "err", err)
		if err := sleepWithBackoff(ctx, policy.BaseBackoff, attempt); err != nil {
			return err
		}
	}
	return ErrRetryLimit
}

func isRetryablePGError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func sleepWithBackoff(ctx context.Context, base time.Duration, attempt int) error {
	backoff := time.Duration(attempt*attempt) * base
	jitter := time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	timer := time.NewTimer(backoff + jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

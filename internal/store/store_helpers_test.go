package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type stubGetter struct {
	getFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (s stubGetter) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.getFn == nil {
		return nil
	}
	return s.getFn(ctx, dest, query, args...)
}

type stubExecer struct {
	execFn func(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s stubExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.execFn == nil {
		return stubResult{}, nil
	}
	return s.execFn(ctx, query, args...)
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) {
	return 0, r.err
}

func (r stubResult) RowsAffected() (int64, error) {
	return r.rows, r.err
}

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return f.withTxFn(ctx, fn)
}

type stubDynamo struct {
	getItemFn func(ctx context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putItemFn func(ctx context.Context, params *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
}

func (s stubDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return s.getItemFn(ctx, params)
}

func (s stubDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return s.putItemFn(ctx, params)
}

func sampleSnapshot() Snapshot {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return Snapshot{
		Accounts: []PersistedAccount{
			{
				ID:        "A1",
				OwnerName: "Alice",
				PIN:       "1234",
				Balance:   decimal.RequireFromString("101.24"),
				Transactions: []PersistedTransaction{
					{ID: "t-1", Date: at, Amount: decimal.RequireFromString("100"), Description: "Initial Deposit", Currency: "GBP"},
					{ID: "t-2", Date: at.Add(time.Minute), Amount: decimal.RequireFromString("1.24"), Description: "Deposit", Currency: "USD"},
				},
				FailedLoginAttempts: 2,
				LastFailedLogin:     at.Add(2 * time.Minute),
			},
		},
	}
}

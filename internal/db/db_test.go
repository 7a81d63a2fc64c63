package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// scriptedState drives a fake driver whose first failCommits commits fail
// with failCode.
type scriptedState struct {
	commits     int64
	rollbacks   int64
	failCommits int64
	failCode    string
}

type scriptedDriver struct{ state *scriptedState }

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{state: d.state}, nil
}

type scriptedConn struct{ state *scriptedState }

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) { return scriptedStmt{}, nil }
func (c *scriptedConn) Close() error                        { return nil }
func (c *scriptedConn) Begin() (driver.Tx, error)           { return &scriptedTx{state: c.state}, nil }

func (c *scriptedConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &scriptedTx{state: c.state}, nil
}

type scriptedTx struct{ state *scriptedState }

func (t *scriptedTx) Commit() error {
	call := atomic.AddInt64(&t.state.commits, 1)
	if call <= t.state.failCommits {
		code := t.state.failCode
		if code == "" {
			code = "40001"
		}
		return &pq.Error{Code: pq.ErrorCode(code)}
	}
	return nil
}

func (t *scriptedTx) Rollback() error {
	atomic.AddInt64(&t.state.rollbacks, 1)
	return nil
}

type scriptedStmt struct{}

func (scriptedStmt) Close() error                               { return nil }
func (scriptedStmt) NumInput() int                              { return -1 }
func (scriptedStmt) Exec([]driver.Value) (driver.Result, error) { return driver.RowsAffected(1), nil }
func (scriptedStmt) Query([]driver.Value) (driver.Rows, error)  { return nil, errors.New("not supported") }

var driverCounter uint64

func openScripted(t *testing.T, state *scriptedState) *sqlx.DB {
	t.Helper()
	name := fmt.Sprintf("scripted-%d", atomic.AddUint64(&driverCounter, 1))
	sql.Register(name, &scriptedDriver{state: state})
	sqlDB, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return sqlx.NewDb(sqlDB, name)
}

func TestTxRunnerCommits(t *testing.T) {
	state := &scriptedState{}
	runner := NewTxRunner(openScripted(t, state), log.New(io.Discard))
	err := runner.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE ledger_snapshots SET version = 1")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.commits != 1 || state.rollbacks != 0 {
		t.Fatalf("expected commit=1 rollback=0, got %d/%d", state.commits, state.rollbacks)
	}
}

func TestTxRunnerRollsBackOnError(t *testing.T) {
	state := &scriptedState{}
	runner := NewTxRunner(openScripted(t, state), log.New(io.Discard))
	boom := errors.New("boom")
	if err := runner.WithTx(context.Background(), func(*sqlx.Tx) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if state.rollbacks != 1 || state.commits != 0 {
		t.Fatalf("expected rollback=1 commit=0, got %d/%d", state.rollbacks, state.commits)
	}
}

func TestTxRunnerRetriesOnSerializationFailure(t *testing.T) {
	state := &scriptedState{failCommits: 1}
	runner := NewTxRunner(openScripted(t, state), log.New(io.Discard))
	calls := 0
	err := runner.WithTx(context.Background(), func(*sqlx.Tx) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.commits != 2 || calls != 2 {
		t.Fatalf("expected 2 attempts, got commits=%d calls=%d", state.commits, calls)
	}
}

func TestTxRunnerRetryCapExceeded(t *testing.T) {
	state := &scriptedState{failCommits: 10, failCode: "40P01"}
	runner := NewTxRunner(openScripted(t, state), log.New(io.Discard))
	runner.policy.BaseBackoff = time.Millisecond
	err := runner.WithTx(context.Background(), func(*sqlx.Tx) error { return nil })
	if !errors.Is(err, ErrRetryLimit) {
		t.Fatalf("expected retry limit error, got %v", err)
	}
	if state.commits != 5 {
		t.Fatalf("expected 5 commits, got %d", state.commits)
	}
}

func TestTxRunnerDoesNotRetryOtherErrors(t *testing.T) {
	state := &scriptedState{failCommits: 1, failCode: "23505"}
	runner := NewTxRunner(openScripted(t, state), log.New(io.Discard))
	err := runner.WithTx(context.Background(), func(*sqlx.Tx) error { return nil })
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		t.Fatalf("expected unique violation to surface, got %v", err)
	}
	if state.commits != 1 {
		t.Fatalf("expected a single attempt, got %d", state.commits)
	}
}

func TestTxRunnerStopsWhenContextCancelled(t *testing.T) {
	state := &scriptedState{failCommits: 10}
	runner := NewTxRunner(openScripted(t, state), log.New(io.Discard))
	runner.policy.BaseBackoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(20*time.Millisecond, cancel)
	err := runner.WithTx(ctx, func(*sqlx.Tx) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if state.commits != 1 {
		t.Fatalf("expected one attempt, got %d", state.commits)
	}
}

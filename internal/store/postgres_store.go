package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps one snapshot row per ledger key in ledger_snapshots.
type PostgresStore struct {
	db       Getter
	txRunner TxRunner
	key      string
}

func NewPostgresStore(db Getter, txRunner TxRunner, key string) *PostgresStore {
	return &PostgresStore{db: db, txRunner: txRunner, key: key}
}

func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `
		SELECT payload
		FROM ledger_snapshots
		WHERE ledger_key = $1
	`, s.key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, err
	}
	return Decode(payload)
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := Encode(stamp(snap, "postgres"), false)
	if err != nil {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return writeSnapshot(ctx, tx, s.key, payload)
	})
}

func writeSnapshot(ctx context.Context, tx Execer, key string, payload []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_snapshots (ledger_key, version, payload, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (ledger_key) DO UPDATE
		SET version = EXCLUDED.version, payload = EXCLUDED.payload, updated_at = NOW()
	`, key, SnapshotVersion, string(payload))
	return err
}
